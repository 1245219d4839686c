package models

// explicit join model so the association carries its own composite
// uniqueness constraint
type TitleGenre struct {
	TitleID int64 `json:"title_id" gorm:"primaryKey;uniqueIndex:idx_title_genre;not null"`
	GenreID int64 `json:"genre_id" gorm:"primaryKey;uniqueIndex:idx_title_genre;not null"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
