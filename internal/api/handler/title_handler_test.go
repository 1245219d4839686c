package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
)

// MockTitleService mocks the TitleService interface
type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) GetAll(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]dto.TitleResponse, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]dto.TitleResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleService) GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTitleRouter(svc service.TitleService, authMW gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewTitleHandler(svc)
	handler.RegisterRoutes(r.Group("/titles"), authMW)
	return r
}

func TestTitleList_Filters(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := setupTitleRouter(mockSvc, fakeAuth("admin-1", models.RoleAdmin))

	filter := repository.TitleFilter{CategorySlug: "books", Year: 1999}
	mockSvc.On("GetAll", mock.Anything, filter, 1, 20).
		Return([]dto.TitleResponse{{ID: 1, Name: "Old Book", Year: 1999}}, int64(1), nil)

	req, _ := http.NewRequest("GET", "/titles?category=books&year=1999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTitleGet_NotFound(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := setupTitleRouter(mockSvc, fakeAuth("admin-1", models.RoleAdmin))

	mockSvc.On("GetByID", mock.Anything, int64(404)).Return(nil, service.ErrTitleNotFound)

	req, _ := http.NewRequest("GET", "/titles/404", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTitleCreate_YearInFuture(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := setupTitleRouter(mockSvc, fakeAuth("admin-1", models.RoleAdmin))

	in := dto.CreateTitleDTO{Name: "From the Future", Year: 9999, Category: "books"}
	mockSvc.On("Create", mock.Anything, in).Return(nil, service.ErrYearInFuture)

	w := postJSON(router, "/titles", in)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string][]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "year")
}

func TestTitleCreate_NonAdminForbidden(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := setupTitleRouter(mockSvc, fakeAuth("user-1", models.RoleUser))

	w := postJSON(router, "/titles", dto.CreateTitleDTO{Name: "X", Year: 2000, Category: "books"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleUpdate_Success(t *testing.T) {
	mockSvc := new(MockTitleService)
	router := setupTitleRouter(mockSvc, fakeAuth("admin-1", models.RoleAdmin))

	name := "Renamed"
	mockSvc.On("Update", mock.Anything, int64(1), dto.UpdateTitleDTO{Name: &name}).
		Return(&dto.TitleResponse{ID: 1, Name: "Renamed", Year: 1999}, nil)

	raw, _ := json.Marshal(gin.H{"name": "Renamed"})
	req, _ := http.NewRequest("PATCH", "/titles/1", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
