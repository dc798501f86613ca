package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/middleware"
	"storefront/models"
	repositories "storefront/repository"
	"storefront/security"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginRequest is the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the registration request body
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type AuthController struct {
	userRepo  repositories.UserRepository
	tokens    *services.TokenService
	blacklist *security.TokenBlacklist
	logger    *zap.Logger
}

func NewAuthController(userRepo repositories.UserRepository, tokens *services.TokenService, blacklist *security.TokenBlacklist, logger *zap.Logger) *AuthController {
	return &AuthController{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Register creates a new account. Unknown roles fall back to USER.
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and password are required"})
		return
	}

	if _, err := ac.userRepo.FindByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != "ADMIN" && role != "USER" {
		role = "USER"
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := ac.userRepo.Create(c.Request.Context(), user); err != nil {
		ac.logger.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful"})
}

// Login authenticates and returns a JWT plus a safe user payload.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	user, err := ac.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		ac.logger.Error("Failed to look up user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := ac.tokens.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		ac.logger.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout revokes the presented token until its own expiry, after which the
// blacklist entry is moot anyway.
func (ac *AuthController) Logout(c *gin.Context) {
	tokenVal, ok := c.Get(middleware.TokenContextKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	expVal, _ := c.Get(middleware.TokenExpContextKey)
	exp, _ := expVal.(int64)
	if exp <= 0 {
		// No usable exp claim; revoke for a full token lifetime so logout
		// never silently turns into a no-op.
		exp = time.Now().Add(ac.tokens.TTL()).Unix()
	}

	ac.blacklist.Revoke(tokenVal.(string), exp)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
