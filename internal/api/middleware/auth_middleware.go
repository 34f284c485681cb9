package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	models "github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey}

}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)

	return claims, ok && claims != nil
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		claims, appErr := m.parse(logger, authHeader)
		if appErr != nil {
			response.Error(w, appErr)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.withClaims(r.Context(), logger, claims)))
	}
}

// Identify attaches the caller's claims when a token is present and lets
// anonymous requests through. A token that is present but invalid is still
// rejected.
func (m *AuthMiddleware) Identify(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, appErr := m.parse(logger, authHeader)
		if appErr != nil {
			response.Error(w, appErr)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.withClaims(r.Context(), logger, claims)))
	}
}

func (m *AuthMiddleware) parse(logger *slog.Logger, authHeader string) (*models.Claims, *errors.AppError) {

	// Token is of format : "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")

	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		logger.Warn("Invalid authorization header format")
		return nil, errors.UnauthorizedError("Invalid authorization format")
	}

	claims := &models.Claims{}

	// Expiry is checked by the parser.
	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(*jwt.Token) (any, error) {
		return m.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
		return nil, errors.UnauthorizedError("Invalid or expired token")
	}

	if !token.Valid {
		logger.Warn("Invalid token")
		return nil, errors.UnauthorizedError("Invalid token")
	}

	return claims, nil
}

func (m *AuthMiddleware) withClaims(ctx context.Context, logger *slog.Logger, claims *models.Claims) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, claims)

	requestScopedLogger := logger.With(slog.String("userId", claims.UserID.String()))
	requestScopedLogger.Debug("User authenticated")

	return WithLogger(ctx, requestScopedLogger)
}
