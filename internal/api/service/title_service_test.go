package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
)

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetAll(ctx context.Context, name string, page, pageSize int) ([]models.Category, int64, error) {
	args := m.Called(ctx, name, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

// MockGenreRepository mocks the GenreRepository interface
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	args := m.Called(ctx, genre)
	return args.Error(0)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockGenreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) GetAll(ctx context.Context, name string, page, pageSize int) ([]models.Genre, int64, error) {
	args := m.Called(ctx, name, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Genre), args.Get(1).(int64), args.Error(2)
}

func newTestTitleService(titleRepo *MockTitleRepository, catRepo *MockCategoryRepository, genreRepo *MockGenreRepository) TitleService {
	return NewTitleService(titleRepo, catRepo, genreRepo)
}

func TestTitleGetAll_RatingTruncated(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	catRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	svc := newTestTitleService(titleRepo, catRepo, genreRepo)

	titles := []models.Title{
		{ID: 1, Name: "Rated", Year: 2001},
		{ID: 2, Name: "Unrated", Year: 2002},
	}
	titleRepo.On("GetAll", mock.Anything, repository.TitleFilter{}, 1, 20).
		Return(titles, int64(2), nil)
	titleRepo.On("AverageScores", mock.Anything, []int64{1, 2}).
		Return(map[int64]float64{1: 7.5}, nil)

	resp, total, err := svc.GetAll(context.Background(), repository.TitleFilter{}, 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	// the mean is reported as a whole number, fraction dropped
	assert.NotNil(t, resp[0].Rating)
	assert.Equal(t, 7, *resp[0].Rating)
	assert.Nil(t, resp[1].Rating)
}

func TestTitleCreate_Success(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	catRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	svc := newTestTitleService(titleRepo, catRepo, genreRepo)

	catRepo.On("FindBySlug", mock.Anything, "books").
		Return(&models.Category{ID: 3, Name: "Books", Slug: "books"}, nil)
	genreRepo.On("FindBySlugs", mock.Anything, []string{"drama"}).
		Return([]models.Genre{{ID: 5, Name: "Drama", Slug: "drama"}}, nil)
	titleRepo.On("Create", mock.Anything, mock.MatchedBy(func(title *models.Title) bool {
		return title.Name == "New Book" && title.CategoryID != nil && *title.CategoryID == 3
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Title).ID = 10
	}).Return(nil)
	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{
		ID:       10,
		Name:     "New Book",
		Year:     1999,
		Category: &models.Category{ID: 3, Name: "Books", Slug: "books"},
		Genres:   []models.Genre{{ID: 5, Name: "Drama", Slug: "drama"}},
	}, nil)
	titleRepo.On("AverageScores", mock.Anything, []int64{10}).
		Return(map[int64]float64{}, nil)

	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "New Book",
		Year:     1999,
		Category: "books",
		Genre:    []string{"drama"},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Nil(t, resp.Rating)
	assert.Equal(t, "books", resp.Category.Slug)
	titleRepo.AssertExpectations(t)
}

func TestTitleCreate_YearInFuture(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	catRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	svc := newTestTitleService(titleRepo, catRepo, genreRepo)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "From the Future",
		Year:     time.Now().Year() + 1,
		Category: "books",
	})

	assert.ErrorIs(t, err, ErrYearInFuture)
	titleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_UnknownCategory(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	catRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	svc := newTestTitleService(titleRepo, catRepo, genreRepo)

	catRepo.On("FindBySlug", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "X",
		Year:     2000,
		Category: "nope",
	})

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestTitleCreate_UnknownGenreSlug(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	catRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	svc := newTestTitleService(titleRepo, catRepo, genreRepo)

	catRepo.On("FindBySlug", mock.Anything, "books").
		Return(&models.Category{ID: 3, Slug: "books"}, nil)
	genreRepo.On("FindBySlugs", mock.Anything, []string{"drama", "nope"}).
		Return([]models.Genre{{ID: 5, Slug: "drama"}}, nil)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "X",
		Year:     2000,
		Category: "books",
		Genre:    []string{"drama", "nope"},
	})

	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestTitleCreate_RepeatedGenreSlug(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	catRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	svc := newTestTitleService(titleRepo, catRepo, genreRepo)

	catRepo.On("FindBySlug", mock.Anything, "books").
		Return(&models.Category{ID: 3, Slug: "books"}, nil)
	// the repeated slug is looked up and attached once
	genreRepo.On("FindBySlugs", mock.Anything, []string{"drama"}).
		Return([]models.Genre{{ID: 5, Name: "Drama", Slug: "drama"}}, nil)
	titleRepo.On("Create", mock.Anything, mock.MatchedBy(func(title *models.Title) bool {
		return len(title.Genres) == 1
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Title).ID = 10
	}).Return(nil)
	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{
		ID:     10,
		Name:   "X",
		Year:   2000,
		Genres: []models.Genre{{ID: 5, Name: "Drama", Slug: "drama"}},
	}, nil)
	titleRepo.On("AverageScores", mock.Anything, []int64{10}).
		Return(map[int64]float64{}, nil)

	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "X",
		Year:     2000,
		Category: "books",
		Genre:    []string{"drama", "drama"},
	})

	assert.NoError(t, err)
	assert.Len(t, resp.Genre, 1)
	genreRepo.AssertExpectations(t)
}

func TestTitleUpdate_NotFound(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	catRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	svc := newTestTitleService(titleRepo, catRepo, genreRepo)

	titleRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	name := "renamed"
	_, err := svc.Update(context.Background(), 404, dto.UpdateTitleDTO{Name: &name})

	assert.ErrorIs(t, err, ErrTitleNotFound)
}
