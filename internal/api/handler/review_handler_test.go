package handler

import (
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
	"reviewhub/internal/api/service"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) GetByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]dto.ReviewResponse, int64, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]dto.ReviewResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, titleID, reviewID int64, actor service.Actor, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, titleID, reviewID int64, actor service.Actor) error {
	args := m.Called(ctx, titleID, reviewID, actor)
	return args.Error(0)
}

// fakeAuth stands in for the JWT middleware on write routes
func fakeAuth(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

func setupReviewRouter(svc service.ReviewService, authMW gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewReviewHandler(svc)
	handler.RegisterRoutes(r.Group("/titles/:title_id/reviews"), authMW)
	return r
}

func TestReviewList_Success(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, fakeAuth("user-1", models.RoleUser))

	list := []dto.ReviewResponse{{ID: 7, Author: "reader", Text: "solid", Score: 8}}
	mockSvc.On("GetByTitle", mock.Anything, int64(1), 1, 20).Return(list, int64(1), nil)

	req, _ := http.NewRequest("GET", "/titles/1/reviews", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []dto.ReviewResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Data, 1)
	assert.Equal(t, "reader", response.Data[0].Author)
}

func TestReviewList_UnknownTitle(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, fakeAuth("user-1", models.RoleUser))

	mockSvc.On("GetByTitle", mock.Anything, int64(99), 1, 20).
		Return(nil, int64(0), service.ErrTitleNotFound)

	req, _ := http.NewRequest("GET", "/titles/99/reviews", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewCreate_Created(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, fakeAuth("user-1", models.RoleUser))

	in := dto.CreateReviewDTO{Text: "solid", Score: 8}
	created := &dto.ReviewResponse{ID: 7, Author: "reader", Text: "solid", Score: 8}
	mockSvc.On("Create", mock.Anything, int64(1), "user-1", in).Return(created, nil)

	w := postJSON(router, "/titles/1/reviews", in)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReviewCreate_Duplicate(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, fakeAuth("user-1", models.RoleUser))

	in := dto.CreateReviewDTO{Text: "again", Score: 5}
	mockSvc.On("Create", mock.Anything, int64(1), "user-1", in).
		Return(nil, service.ErrReviewExists)

	w := postJSON(router, "/titles/1/reviews", in)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string][]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "title")
}

func TestReviewCreate_ScoreValidation(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, fakeAuth("user-1", models.RoleUser))

	// binding rejects out-of-range scores before the service is reached
	w := postJSON(router, "/titles/1/reviews", gin.H{"text": "x", "score": 11})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewDelete_PermissionDenied(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, fakeAuth("stranger", models.RoleUser))

	actor := service.Actor{UserID: "stranger", Role: models.RoleUser}
	mockSvc.On("Delete", mock.Anything, int64(1), int64(7), actor).
		Return(service.ErrPermissionDenied)

	req, _ := http.NewRequest("DELETE", "/titles/1/reviews/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewDelete_NoContent(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, fakeAuth("user-1", models.RoleModerator))

	actor := service.Actor{UserID: "user-1", Role: models.RoleModerator}
	mockSvc.On("Delete", mock.Anything, int64(1), int64(7), actor).Return(nil)

	req, _ := http.NewRequest("DELETE", "/titles/1/reviews/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
