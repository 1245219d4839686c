package dto

import "reviewhub/internal/api/models"

// CreateTitleDTO for creating a title; category and genres are referenced
// by slug
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required,max=50"`
	Genre       []string `json:"genre"`
}

// UpdateTitleDTO for partial updates; nil fields are left untouched
type UpdateTitleDTO struct {
	Name        *string   `json:"name" binding:"omitempty,max=255"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category" binding:"omitempty,max=50"`
	Genre       *[]string `json:"genre"`
}

// TitleResponse for returning title information; Rating is absent when the
// title has no reviews
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description string            `json:"description"`
	Rating      *int              `json:"rating"`
	Category    *CategoryResponse `json:"category"`
	Genre       []GenreResponse   `json:"genre"`
}

// FromModelToTitleResponse converts a Title model plus its aggregated rating
// to a TitleResponse DTO
func FromModelToTitleResponse(t models.Title, rating *float64) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		resp.Category = &c
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	if rating != nil {
		r := int(*rating)
		resp.Rating = &r
	}
	return resp
}
