package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/phillip/hoa-backoffice-go/auth"
	"github.com/phillip/hoa-backoffice-go/config"
	"github.com/phillip/hoa-backoffice-go/models"
	"github.com/phillip/hoa-backoffice-go/store"
)

// ---------------- LOGIN ----------------
func Login(cfg *config.Config, s *store.MongoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := s.FindUserByEmail(c.Request.Context(), input.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		admin, err := s.FindAdminByUID(c.Request.Context(), user.AuthUID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		tokens, err := auth.GenerateTokens(cfg.JWTSecret, user.AuthUID, user.DisplayName, user.PhotoURL, admin != nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}
		c.JSON(http.StatusOK, tokens)
	}
}

// ---------------- REFRESH ----------------
func RefreshToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := auth.ParseToken(cfg.JWTSecret, input.RefreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		tokens, err := auth.GenerateTokens(cfg.JWTSecret, claims.UID, claims.Name, claims.PhotoURL, claims.Admin)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}
		c.JSON(http.StatusOK, tokens)
	}
}

// ---------------- REGISTER ----------------
// Admin-only: the board creates accounts, there is no self-signup.
func Register(s *store.MongoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email       string `json:"email" binding:"required,email"`
			Password    string `json:"password" binding:"required,min=8"`
			DisplayName string `json:"display_name" binding:"required"`
			PhotoURL    string `json:"photo_url"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		existing, err := s.FindUserByEmail(c.Request.Context(), input.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
			return
		}

		now := time.Now()
		user := &models.User{
			AuthUID:      uuid.NewString(),
			Email:        input.Email,
			PasswordHash: string(hash),
			DisplayName:  input.DisplayName,
			PhotoURL:     input.PhotoURL,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.InsertUser(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "user created", "auth_uid": user.AuthUID})
	}
}
