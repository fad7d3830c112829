package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/accounts/api/http/presenter"
	"github.com/artem13815/accounts/pkg/auth"
	"github.com/artem13815/accounts/pkg/security/jwt"
)

// UserHandler serves endpoints behind the bearer-token middleware.
type UserHandler struct {
	useCase auth.AuthUseCase
}

func NewUserHandler(useCase auth.AuthUseCase) *UserHandler {
	return &UserHandler{useCase: useCase}
}

// userResponse is the public projection of a user: never the digest.
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type verifyResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Me returns the authenticated user's profile.
// @Summary  Current user
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} userResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(jwt.LocalUserID).(string)

	user, err := h.useCase.Identify(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			// Token was valid when issued but the account is gone.
			return presenter.Error(c, http.StatusNotFound, "user not found")
		case errors.Is(err, auth.ErrStoreUnavailable):
			return presenter.Error(c, http.StatusServiceUnavailable, "store unavailable, retry later")
		default:
			return presenter.Error(c, http.StatusInternalServerError, "failed to load user")
		}
	}

	return presenter.JSON(c, http.StatusOK, userResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
}

// Verify confirms the presented token. The middleware has already checked
// signature and expiry, so this only echoes the verified claims; no store
// read happens here.
// @Summary  Verify token
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} verifyResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /verify [post]
func (h *UserHandler) Verify(c *fiber.Ctx) error {
	userID, _ := c.Locals(jwt.LocalUserID).(string)
	email, _ := c.Locals(jwt.LocalEmail).(string)

	return presenter.JSON(c, http.StatusOK, verifyResponse{
		Valid:  true,
		UserID: userID,
		Email:  email,
	})
}
