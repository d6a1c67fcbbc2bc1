package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jondawson917/snappycamper/internal/apperr"
	"github.com/jondawson917/snappycamper/internal/auth"
	"github.com/jondawson917/snappycamper/internal/config"
	"github.com/jondawson917/snappycamper/internal/middleware"
	"github.com/jondawson917/snappycamper/internal/queue"
	"github.com/jondawson917/snappycamper/internal/repository"
	queue_publisher "github.com/jondawson917/snappycamper/internal/service"
)

// UserHandler serves user management and the reserve/unreserve operations.
// Capability gating (admin, self-or-admin) happens in middleware; the one
// exception is the isAdmin field of a partial update, which is re-checked
// here because the gate cannot see request bodies.
type UserHandler struct {
	Cfg          config.Config
	Users        *repository.UserRepo
	Camps        *repository.CampRepo
	Reservations *repository.ReservationRepo
	Tokens       *auth.TokenService
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, cr *repository.CampRepo, res *repository.ReservationRepo, t *auth.TokenService) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Camps: cr, Reservations: res, Tokens: t}
}

type createUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	State    string `json:"state"`
	IsAdmin  bool   `json:"isAdmin"`
}

// List handles GET /users (admin only).
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// Get handles GET /users/:username (self or admin). The response includes the
// camps the user has reserved.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, camps, err := h.Users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u, "camps": camps})
}

// Create handles POST /users (admin only). Unlike self registration this may
// set the admin flag, and it returns a token so a freshly provisioned user
// can sign in immediately.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.BadRequest("invalid body"))
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, apperr.BadRequest("username/password required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Register(ctx, req.Username, req.Password, req.FullName, req.State, req.IsAdmin, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, err)
	}
	token, err := h.Tokens.Issue(u.Username, u.IsAdmin)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": u, "token": token})
}

// Update handles PATCH /users/:username (self or admin). Promoting or
// demoting via isAdmin requires an admin caller regardless of ownership.
func (h *UserHandler) Update(c echo.Context) error {
	var upd repository.UserUpdate
	if err := c.Bind(&upd); err != nil {
		return fail(c, apperr.BadRequest("invalid body"))
	}
	if upd.IsAdmin != nil {
		claims := middleware.ClaimsFrom(c)
		if claims == nil || !claims.IsAdmin {
			return fail(c, apperr.Forbidden("only admins may change isAdmin"))
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Update(ctx, c.Param("username"), upd, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// Delete handles DELETE /users/:username (self or admin). Reservations held
// by the user are removed by the schema-level cascade.
func (h *UserHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	username := c.Param("username")
	if err := h.Users.Delete(ctx, username); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": username})
}

// Reserve handles POST /users/:username/camps/:parkCode (self or admin).
// The camp is resolved before the user so a bad park code reports "no camp"
// ahead of any user problem, matching the check order inside the manager.
func (h *UserHandler) Reserve(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	parkCode := c.Param("parkCode")
	username := c.Param("username")
	campID, err := h.Camps.IDByParkCode(ctx, parkCode)
	if err != nil {
		return fail(c, err)
	}
	userID, err := h.Users.IDByUsername(ctx, username)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Reservations.Reserve(ctx, userID, campID); err != nil {
		return fail(c, err)
	}
	h.publishEvent(queue.EventReserved, userID, username, campID, parkCode)
	return c.JSON(http.StatusCreated, echo.Map{"reserved": parkCode})
}

// Unreserve handles DELETE /users/:username/camps/:parkCode (self or admin).
// Releasing a pair with no reservation is a 404, not a silent success.
func (h *UserHandler) Unreserve(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	parkCode := c.Param("parkCode")
	username := c.Param("username")
	campID, err := h.Camps.IDByParkCode(ctx, parkCode)
	if err != nil {
		return fail(c, err)
	}
	userID, err := h.Users.IDByUsername(ctx, username)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Reservations.Unreserve(ctx, userID, campID); err != nil {
		return fail(c, err)
	}
	h.publishEvent(queue.EventUnreserved, userID, username, campID, parkCode)
	return c.JSON(http.StatusOK, echo.Map{"unreserved": parkCode})
}

// publishEvent emits a reservation event in the background. Broker failures
// are logged by the publisher and never affect the response.
func (h *UserHandler) publishEvent(kind string, userID int64, username string, campID int64, parkCode string) {
	ev := queue.ReservationEvent{
		Kind:     kind,
		UserID:   userID,
		Username: username,
		CampID:   campID,
		ParkCode: parkCode,
		At:       time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue_publisher.PublishReservationEvent(ctx, ev); err != nil {
			log.Printf("reservation event publish failed: %v", err)
		}
	}()
}
