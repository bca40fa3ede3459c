package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkup-service/internal/auth"
	"linkup-service/internal/mocks"
	"linkup-service/internal/models"
	"linkup-service/internal/repositories"
)

func setupAuthRouter(userRepo *mocks.UserRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	handler := NewAuthHandler(userRepo, tokens, nil, false)

	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/logout", handler.Logout)
	return r
}

func registerBody(overrides map[string]any) *bytes.Buffer {
	body := map[string]any{
		"full_name":        "Alice Example",
		"username":         "alice",
		"email":            "alice@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
	}
	for k, v := range overrides {
		body[k] = v
	}
	raw, _ := json.Marshal(body)
	return bytes.NewBuffer(raw)
}

func TestRegisterSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(userRepo)

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" && u.PasswordHash != ""
	})).Return(models.User{ID: 1, Username: "alice", Email: "alice@example.com"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/auth/register", registerBody(nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Success bool        `json:"success"`
		Token   string      `json:"token"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	userRepo.AssertExpectations(t)
}

func TestRegisterNormalizesIdentifiers(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(userRepo)

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com"
	})).Return(models.User{ID: 1, Username: "alice"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/auth/register", registerBody(map[string]any{
		"username": "  Alice ",
		"email":    " ALICE@Example.com ",
	}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name      string
		overrides map[string]any
	}{
		{"missing fields", map[string]any{"email": ""}},
		{"bad email", map[string]any{"email": "not-an-email"}},
		{"short password", map[string]any{"password": "abc", "confirm_password": "abc"}},
		{"password mismatch", map[string]any{"confirm_password": "other1"}},
		{"short username", map[string]any{"username": "ab"}},
		{"bad username", map[string]any{"username": "al ice"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userRepo := new(mocks.UserRepositoryMock)
			router := setupAuthRouter(userRepo)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", registerBody(tc.overrides))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(userRepo)

	userRepo.On("Create", mock.Anything, mock.Anything).
		Return(models.User{}, repositories.ErrDuplicateUser).Once()

	req := httptest.NewRequest(http.MethodPost, "/auth/register", registerBody(nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestLoginSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(userRepo)

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: hash}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"email":"alice@example.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
	userRepo.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(userRepo)

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 1, PasswordHash: hash}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(userRepo)

	userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"email":"nobody@example.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestLogoutClearsCookie(t *testing.T) {
	router := setupAuthRouter(new(mocks.UserRepositoryMock))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
