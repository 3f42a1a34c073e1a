package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/notes-service/internal/api/dto"
	"github.com/spec-kit/notes-service/internal/service"
	apperrors "github.com/spec-kit/notes-service/pkg/util"
)

// AuthHandler exposes token issuance and refresh.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// IssueToken POST /auth/token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewAuthError("INVALID_CREDENTIALS", "invalid credentials")
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewAuthError("INVALID_CREDENTIALS", "invalid credentials")
	}

	pair, err := h.service.IssueCredential(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// RefreshToken POST /auth/refresh.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewAuthError("INVALID_TOKEN", "invalid or expired refresh token")
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewAuthError("INVALID_TOKEN", "invalid or expired refresh token")
	}

	access, err := h.service.RefreshCredential(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(dto.AccessTokenResponse{Access: access})
}
