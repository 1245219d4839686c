package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

var ErrGenreNotFound = errors.New("genre not found")

type GenreService interface {
	GetAll(ctx context.Context, name string, page, pageSize int) ([]models.Genre, int64, error)
	Create(ctx context.Context, genre *models.Genre) error
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) GetAll(ctx context.Context, name string, page, pageSize int) ([]models.Genre, int64, error) {
	return s.genreRepo.GetAll(ctx, name, page, pageSize)
}

func (s *genreService) Create(ctx context.Context, genre *models.Genre) error {
	if _, err := s.genreRepo.FindBySlug(ctx, genre.Slug); err == nil {
		return ErrSlugInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.genreRepo.Create(ctx, genre)
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
