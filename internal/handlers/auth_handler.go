package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/raduvm/ticketline/internal/helpers"
	"github.com/raduvm/ticketline/internal/middleware"
	"github.com/raduvm/ticketline/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	role, ok := models.ParseRole(strings.ToUpper(req.Role))
	if !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid role. Choose CLIENT or OWNER_EVENT.")
		return
	}
	// Administrative and service accounts cannot be self-registered.
	if role == models.RoleAdmin || role == models.RoleServiceClient {
		helpers.RespondWithError(c, http.StatusForbidden, "Admin and service accounts cannot be registered publicly.")
		return
	}

	gormDB := middleware.GetDB(c)
	if gormDB == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	var existingUser models.User
	if result := gormDB.Where("email = ?", req.Email).First(&existingUser); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "User already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := gormDB.Create(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully."})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := middleware.GetDB(c)
	if gormDB == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}

	// The raw password never leaves this handler; only the bcrypt comparison
	// sees it.
	var user models.User
	if err := gormDB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	codec := middleware.GetCodec(c)
	if codec == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Token codec not configured.")
		return
	}

	tokenString, _, err := codec.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout revokes the presented token until its natural expiry. An expired
// token is still accepted here: revoking it is harmless and the client's
// intent is clear.
func Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Authorization header missing.")
		return
	}
	if !strings.HasPrefix(header, "Bearer ") {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Authorization header malformed. Expected: Bearer <token>.")
		return
	}

	codec := middleware.GetCodec(c)
	blacklist := middleware.GetBlacklist(c)
	if codec == nil || blacklist == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Auth services not configured.")
		return
	}

	token, err := codec.DecodeAllowExpired(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		helpers.RespondWithError(c, http.StatusUnprocessableEntity, "Invalid token format.")
		return
	}

	if err := blacklist.Revoke(c.Request.Context(), token.ID, token.ExpiresAt); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to revoke token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}
