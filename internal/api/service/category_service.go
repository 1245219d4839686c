package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugInUse        = errors.New("slug already in use")
)

type CategoryService interface {
	GetAll(ctx context.Context, name string, page, pageSize int) ([]models.Category, int64, error)
	Create(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) GetAll(ctx context.Context, name string, page, pageSize int) ([]models.Category, int64, error) {
	return s.categoryRepo.GetAll(ctx, name, page, pageSize)
}

func (s *categoryService) Create(ctx context.Context, category *models.Category) error {
	if _, err := s.categoryRepo.FindBySlug(ctx, category.Slug); err == nil {
		return ErrSlugInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.categoryRepo.Create(ctx, category)
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
