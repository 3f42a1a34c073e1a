package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/notes-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, resolved from token claims
// alone; no database round trip happens during authentication.
type Principal struct {
	UserID   string
	Username string
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewAuthError("MISSING_TOKEN", "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewAuthError("INVALID_TOKEN", "invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1], TokenTypeAccess)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewAuthError("TOKEN_EXPIRED", "token expired")
		}
		return apperrors.NewAuthError("INVALID_TOKEN", "invalid token")
	}

	c.Locals(principalKey, &Principal{UserID: claims.Subject, Username: claims.Username})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
