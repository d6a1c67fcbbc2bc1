package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jondawson917/snappycamper/internal/apperr"
	"github.com/jondawson917/snappycamper/internal/auth"
	"github.com/jondawson917/snappycamper/internal/config"
	"github.com/jondawson917/snappycamper/internal/repository"
)

// AuthHandler bundles dependencies for the registration and login endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *auth.TokenService
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *auth.TokenService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	State    string `json:"state"`
}

type tokenReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an ordinary user and returns a session token. Self
// registration can never grant the admin flag; only the admin-gated user
// creation endpoint can do that.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.BadRequest("invalid body"))
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, apperr.BadRequest("username/password required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Register(ctx, req.Username, req.Password, req.FullName, req.State, false, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, err)
	}
	token, err := h.Tokens.Issue(u.Username, u.IsAdmin)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": u, "token": token})
}

// Token authenticates a username/password pair and returns a session token.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.BadRequest("invalid body"))
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return fail(c, apperr.BadRequest("username/password required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}
	token, err := h.Tokens.Issue(u.Username, u.IsAdmin)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
