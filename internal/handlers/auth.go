package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"linkup-service/internal/auth"
	"linkup-service/internal/middleware"
	"linkup-service/internal/models"
	"linkup-service/internal/observability"
	"linkup-service/internal/repositories"
	"linkup-service/internal/telemetry"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// AuthHandler manages registration and session endpoints.
type AuthHandler struct {
	userRepo     repositories.UserRepository
	tokens       *auth.TokenManager
	emitter      *telemetry.Emitter
	secureCookie bool
}

// NewAuthHandler builds an AuthHandler. secureCookie should be true outside
// development so session cookies are HTTPS-only.
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenManager, emitter *telemetry.Emitter, secureCookie bool) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, tokens: tokens, emitter: emitter, secureCookie: secureCookie}
}

type registerRequest struct {
	FullName        string   `json:"full_name"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirm_password"`
	Gender          string   `json:"gender"`
	Location        string   `json:"location"`
	Skills          []string `json:"skills"`
	Bio             string   `json:"bio"`
}

// Register creates an account and issues a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if msg := validateRegistration(req); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(c, err)
		return
	}

	user, err := h.userRepo.Create(c.Request.Context(), models.User{
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Gender:       req.Gender,
		Location:     req.Location,
		Skills:       pq.StringArray(req.Skills),
		Bio:          req.Bio,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			fail(c, http.StatusBadRequest, "Email or username already in use")
			return
		}
		internalError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		internalError(c, err)
		return
	}
	h.setSessionCookie(c, token)

	userID := int64(user.ID)
	h.emitter.Emit(c.Request.Context(), "user.registered", requestIDFromContext(c), &userID, gin.H{
		"username": user.Username,
		"ip":       observability.ClientIP(c.Request),
	})

	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "user": user})
}

// Login verifies credentials and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		internalError(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		internalError(c, err)
		return
	}
	h.setSessionCookie(c, token)

	userID := int64(user.ID)
	h.emitter.Emit(c.Request.Context(), "user.login", requestIDFromContext(c), &userID, gin.H{
		"ip": observability.ClientIP(c.Request),
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.tokens.TTL().Seconds()), "/", "", h.secureCookie, true)
}

func validateRegistration(req registerRequest) string {
	switch {
	case req.FullName == "" || req.Username == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "":
		return "Please fill all required fields"
	case !emailPattern.MatchString(req.Email):
		return "Please provide a valid email address"
	case len(req.Password) < 6:
		return "Password must be at least 6 characters long"
	case req.Password != req.ConfirmPassword:
		return "Passwords do not match"
	case len(req.Username) < 3:
		return "Username must be at least 3 characters long"
	case !usernamePattern.MatchString(req.Username):
		return "Username can only contain letters, numbers and underscores"
	}
	return ""
}
