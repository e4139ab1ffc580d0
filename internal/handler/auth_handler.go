package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pollenmap/pollen-backend-go/internal/middleware"
	"github.com/pollenmap/pollen-backend-go/pkg/response"
)

// AuthHandler issues JWT tokens for dashboard clients.
type AuthHandler struct {
	secret string
	ttl    time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{secret: secret, ttl: 24 * time.Hour}
}

// IssueToken handles POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	now := time.Now()
	claims := middleware.Claims{
		ClientID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.secret))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	response.Success(c, gin.H{
		"token":      signed,
		"client_id":  claims.ClientID,
		"expires_at": claims.ExpiresAt.Format(time.RFC3339),
	})
}
