package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/accounts/api/http/presenter"
	"github.com/artem13815/accounts/pkg/auth"
	"github.com/artem13815/accounts/pkg/security/password"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

const minPasswordLen = 6

// validateCredentials checks the request-body shape shared by register and
// login. The returned message is safe to show to the client.
func validateCredentials(email, plaintext string, enforceStrength bool) (string, bool) {
	if strings.TrimSpace(email) == "" || plaintext == "" {
		return "email and password are required", false
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "invalid email address", false
	}
	if enforceStrength {
		if len(plaintext) < minPasswordLen {
			return "password must be at least 6 characters", false
		}
		if len(plaintext) > password.MaxLength {
			return "password is too long", false
		}
	}
	return "", true
}

// Register handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} tokenResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if msg, ok := validateCredentials(req.Email, req.Password, true); !ok {
		return presenter.Error(c, http.StatusBadRequest, msg)
	}

	result, err := h.useCase.Register(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailAlreadyRegistered):
			return presenter.Error(c, http.StatusBadRequest, "email already registered")
		case errors.Is(err, auth.ErrStoreUnavailable):
			return presenter.Error(c, http.StatusServiceUnavailable, "store unavailable, retry later")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to register user")
		}
	}

	return presenter.JSON(c, http.StatusCreated, tokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
	})
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if msg, ok := validateCredentials(req.Email, req.Password, false); !ok {
		return presenter.Error(c, http.StatusBadRequest, msg)
	}

	result, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		// Unknown email and wrong password produce the same response so
		// the endpoint cannot be used to enumerate accounts.
		case errors.Is(err, auth.ErrInvalidCredentials):
			return presenter.Unauthorized(c, "incorrect email or password")
		case errors.Is(err, auth.ErrStoreUnavailable):
			return presenter.Error(c, http.StatusServiceUnavailable, "store unavailable, retry later")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to login")
		}
	}

	return presenter.JSON(c, http.StatusOK, tokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
	})
}
