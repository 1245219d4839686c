package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/service"
)

// parsePagination reads page/page_size query parameters with sane bounds
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}
	return page, pageSize
}

// actorFromContext builds the permission-check actor from the claims stored
// by the auth middleware
func actorFromContext(c *gin.Context) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			actor.UserID = id
		}
	}
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(string); ok {
			actor.Role = role
		}
	}
	return actor
}

// fieldError shapes a validation failure as a field-keyed message list
func fieldError(field, message string) gin.H {
	return gin.H{field: []string{message}}
}

// paginationEnvelope is the shared list-response metadata block
func paginationEnvelope(page, pageSize int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
