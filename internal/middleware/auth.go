package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"story-server/internal/models"
)

// Ключи в контексте Gin, устанавливаемые auth middleware.
const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextRolesKey    = "roles"
)

// TokenVerifier определяет функцию, которая проверяет строку токена и возвращает claims.
// Ошибки могут быть models.ErrTokenInvalid, models.ErrTokenExpired, models.ErrTokenMalformed и т.д.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// AuthMiddleware проверяет bearer-токен и кладет идентичность в контекст Gin.
// Запросы без валидного токена отклоняются с 401.
func AuthMiddleware(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyRequest(c, verifier)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "Unauthorized: Invalid token"
			switch {
			case errors.Is(err, errNoToken):
				msg = "Unauthorized: Missing token"
			case errors.Is(err, models.ErrTokenExpired):
				msg = "Unauthorized: Token expired"
			case errors.Is(err, models.ErrTokenMalformed), errors.Is(err, models.ErrTokenInvalid):
				// Одно сообщение для невалидного и некорректного токена
			default:
				logger.Error("Unexpected token verification error",
					zap.String("path", c.Request.URL.Path), zap.Error(err))
				status = http.StatusInternalServerError
				msg = "Internal server error during token verification"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		setIdentity(c, claims)
		logger.Debug("User authorized",
			zap.String("userID", claims.UserID.String()),
			zap.Strings("roles", claims.Roles))
		c.Next()
	}
}

// OptionalAuthMiddleware извлекает идентичность, если токен есть и валиден,
// но пропускает запрос дальше в любом случае. Нужен публичным эндпоинтам,
// которые показывают владельцу больше (чужие черновики vs свои).
func OptionalAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyRequest(c, verifier)
		if err != nil {
			if !errors.Is(err, errNoToken) {
				logger.Debug("Optional auth token rejected",
					zap.String("path", c.Request.URL.Path), zap.Error(err))
			}
			c.Next()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

var errNoToken = errors.New("no bearer token")

func verifyRequest(c *gin.Context, verifier TokenVerifier) (*models.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errNoToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, models.ErrTokenMalformed
	}
	return verifier(c.Request.Context(), parts[1])
}

func setIdentity(c *gin.Context, claims *models.Claims) {
	c.Set(ContextUserIDKey, claims.UserID)
	c.Set(ContextUsernameKey, claims.Username)
	c.Set(ContextRolesKey, claims.Roles)
}

// UserIDFromContext достает UserID, установленный auth middleware.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// GenerateTestJWT создает тестовый JWT токен.
// ВАЖНО: Эта функция предназначена ТОЛЬКО для использования в тестах.
func GenerateTestJWT(userID uuid.UUID, username, secretKey string, validityDuration time.Duration) (string, error) {
	claims := &models.Claims{
		UserID:   userID,
		Username: username,
		Roles:    []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
