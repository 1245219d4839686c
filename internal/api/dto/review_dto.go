package dto

import (
	"time"

	"reviewhub/internal/api/models"
)

// CreateReviewDTO for posting a review
type CreateReviewDTO struct {
	Text  string `json:"text" binding:"required,min=1,max=1000"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

// UpdateReviewDTO for partial updates; nil fields are left untouched
type UpdateReviewDTO struct {
	Text  *string `json:"text" binding:"omitempty,min=1,max=1000"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

// ReviewResponse for returning review information; author is the username,
// title the work's name
type ReviewResponse struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(r *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:      r.ID,
		Title:   r.Title.Name,
		Author:  r.Author.Username,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}
