package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkup-service/internal/mocks"
	"linkup-service/internal/models"
	"linkup-service/internal/repositories"
)

func setupUserRouter(userRepo *mocks.UserRepositoryMock, connRepo *mocks.ConnectionRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(userRepo, connRepo)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/user/search", handler.Search)
	r.GET("/user/profile", handler.Profile)
	r.PUT("/user/profile", handler.UpdateProfile)
	r.GET("/user/currentchatters", handler.CurrentChatters)
	return r
}

func TestSearchExcludesCaller(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, new(mocks.ConnectionRepositoryMock))

	userRepo.On("Search", mock.Anything, "ali", 1).Return([]models.PublicProfile{
		{ID: 2, Username: "alice"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/user/search?search=ali", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Users []models.PublicProfile `json:"users"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "alice", resp.Users[0].Username)
	userRepo.AssertExpectations(t)
}

func TestSearchEmptyResult(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, new(mocks.ConnectionRepositoryMock))

	userRepo.On("Search", mock.Anything, "zzz", 1).Return(nil, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/user/search?search=zzz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"users":[]`)
	userRepo.AssertExpectations(t)
}

func TestProfileSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, new(mocks.ConnectionRepositoryMock))

	userRepo.On("GetByID", mock.Anything, 1).
		Return(models.User{ID: 1, Username: "alice"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestProfileNotFound(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, new(mocks.ConnectionRepositoryMock))

	userRepo.On("GetByID", mock.Anything, 1).
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestUpdateProfilePartial(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupUserRouter(userRepo, new(mocks.ConnectionRepositoryMock))

	userRepo.On("UpdateProfile", mock.Anything, 1, mock.MatchedBy(func(u repositories.ProfileUpdate) bool {
		return u.Bio != nil && *u.Bio == "hello" && u.FullName == nil
	})).Return(models.User{ID: 1, Bio: "hello"}, nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/user/profile", bytes.NewBufferString(`{"bio":"hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestCurrentChatters(t *testing.T) {
	connRepo := new(mocks.ConnectionRepositoryMock)
	router := setupUserRouter(new(mocks.UserRepositoryMock), connRepo)

	connRepo.On("ListAccepted", mock.Anything, 1).Return([]models.AcceptedConnection{
		{ID: 7, User: models.PublicProfile{ID: 2, Username: "bob"}},
		{ID: 8, User: models.PublicProfile{ID: 3, Username: "carol"}},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/user/currentchatters", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Users []models.PublicProfile `json:"users"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "bob", resp.Users[0].Username)
	connRepo.AssertExpectations(t)
}
