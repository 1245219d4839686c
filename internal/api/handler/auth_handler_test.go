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
	"reviewhub/internal/api/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) error {
	args := m.Called(ctx, username, email)
	return args.Error(0)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	args := m.Called(ctx, username, confirmationCode)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignup_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("Signup", mock.Anything, "reader", "reader@example.com").Return(nil)

	w := postJSON(router, "/auth/signup", dto.SignupRequest{
		Username: "reader",
		Email:    "reader@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SignupResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "reader", response.Username)
	assert.Equal(t, "reader@example.com", response.Email)

	mockAuthService.AssertExpectations(t)
}

func TestSignup_ReservedUsername(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("Signup", mock.Anything, "me", "me@example.com").
		Return(service.ErrReservedUsername)

	w := postJSON(router, "/auth/signup", dto.SignupRequest{
		Username: "me",
		Email:    "me@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string][]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "username")
}

func TestSignup_EmailInUse(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("Signup", mock.Anything, "reader", "taken@example.com").
		Return(service.ErrEmailInUse)

	w := postJSON(router, "/auth/signup", dto.SignupRequest{
		Username: "reader",
		Email:    "taken@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string][]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "email")
}

func TestSignup_MissingEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	w := postJSON(router, "/auth/signup", gin.H{"username": "reader"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
}

func TestToken_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("IssueToken", mock.Anything, "reader", "1abc-code").
		Return("signed-token", nil)

	w := postJSON(router, "/auth/token", dto.TokenRequest{
		Username:         "reader",
		ConfirmationCode: "1abc-code",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed-token", response.Token)
}

func TestToken_UnknownUser(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("IssueToken", mock.Anything, "ghost", "1abc-code").
		Return("", service.ErrUserNotFound)

	w := postJSON(router, "/auth/token", dto.TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "1abc-code",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToken_InvalidCode(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	handler.RegisterRoutes(router.Group("/auth"))

	mockAuthService.On("IssueToken", mock.Anything, "reader", "wrong").
		Return("", service.ErrInvalidCode)

	w := postJSON(router, "/auth/token", dto.TokenRequest{
		Username:         "reader",
		ConfirmationCode: "wrong",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string][]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "confirmation_code")
}
