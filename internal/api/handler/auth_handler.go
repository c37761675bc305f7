package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vidly/rental-system/internal/api/middleware"
	"github.com/vidly/rental-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type userResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login authenticates a user and returns the identity token as plain text.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      plain
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {string}  string  "token"
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, token)
}

// Register creates a new user account and returns its token in the
// x-auth-token header.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  userResponse
// @Header       200   {string}  x-auth-token  "identity token"
// @Failure      400   {object}  map[string]string
// @Router       /api/users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	header := c.Response().Header()
	header.Set(middleware.HeaderAuthToken, token)
	header.Set(echo.HeaderAccessControlExposeHeaders, strings.ToLower(middleware.HeaderAuthToken))
	return c.JSON(http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// Me returns the account behind the caller's token.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     AuthToken
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
