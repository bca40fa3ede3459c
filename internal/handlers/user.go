package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkup-service/internal/models"
	"linkup-service/internal/repositories"
)

// UserHandler manages profile and user-lookup endpoints.
type UserHandler struct {
	userRepo repositories.UserRepository
	connRepo repositories.ConnectionRepository
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(userRepo repositories.UserRepository, connRepo repositories.ConnectionRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo, connRepo: connRepo}
}

// Search finds users by username or full-name substring, excluding the
// caller.
func (h *UserHandler) Search(c *gin.Context) {
	term := c.Query("search")
	users, err := h.userRepo.Search(c.Request.Context(), term, callerID(c))
	if err != nil {
		internalError(c, err)
		return
	}
	if users == nil {
		users = []models.PublicProfile{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// Profile returns the caller's own account.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userRepo.GetByID(c.Request.Context(), callerID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": user})
}

// UpdateProfile applies the provided profile fields.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		FullName *string  `json:"full_name"`
		Avatar   *string  `json:"avatar"`
		Bio      *string  `json:"bio"`
		Location *string  `json:"location"`
		Skills   []string `json:"skills"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userRepo.UpdateProfile(c.Request.Context(), callerID(c), repositories.ProfileUpdate{
		FullName: req.FullName,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
		Location: req.Location,
		Skills:   req.Skills,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": user})
}

// CurrentChatters returns the public profiles of everyone the caller holds
// an accepted connection with.
func (h *UserHandler) CurrentChatters(c *gin.Context) {
	connections, err := h.connRepo.ListAccepted(c.Request.Context(), callerID(c))
	if err != nil {
		internalError(c, err)
		return
	}

	users := make([]models.PublicProfile, 0, len(connections))
	for _, conn := range connections {
		users = append(users, conn.User)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}
