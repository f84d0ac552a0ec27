package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"surana-backend/internal/auth"
	"surana-backend/internal/service"
)

// AuthHandler local login endpoints
type AuthHandler struct {
	accounts      *service.AccountService
	sessionExpiry time.Duration
	secureCookie  bool
	logger        *zap.Logger
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(accounts *service.AccountService, sessionExpiry time.Duration, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:      accounts,
		sessionExpiry: sessionExpiry,
		secureCookie:  secureCookie,
		logger:        logger,
	}
}

// LoginRequest login body
type LoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, token, err := h.accounts.Login(c.UserContext(), req.Email, req.Name)
	if err != nil {
		return fail(c, h.logger, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionExpiry.Seconds()),
		Secure:   h.secureCookie,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"user":         user,
		"access_token": token,
		"expires_in":   int64(h.sessionExpiry.Seconds()),
	})
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.accounts.Logout(c.UserContext()); err != nil {
		return fail(c, h.logger, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.secureCookie,
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"message": "logged out successfully"})
}

// GetMe GET /auth/me
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	user, ok, err := h.accounts.Me(c.UserContext())
	if err != nil {
		return fail(c, h.logger, err)
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
	}
	return c.JSON(user)
}
