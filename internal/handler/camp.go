package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jondawson917/snappycamper/internal/apperr"
	"github.com/jondawson917/snappycamper/internal/repository"
)

// CampHandler serves campsite browse and admin CRUD endpoints.
type CampHandler struct {
	Camps *repository.CampRepo
}

func NewCampHandler(cr *repository.CampRepo) *CampHandler { return &CampHandler{Camps: cr} }

type createCampReq struct {
	ParkCode string  `json:"parkCode"`
	ParkName string  `json:"parkName"`
	Cost     float64 `json:"cost"`
	ImageURL string  `json:"imageUrl"`
}

// List handles GET /camps (anonymous). Supported query filters: max_cost,
// toilets, cell_reception.
func (h *CampHandler) List(c echo.Context) error {
	var f repository.CampFilter
	if s := c.QueryParam("max_cost"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fail(c, apperr.BadRequest("max_cost must be a number"))
		}
		f.MaxCost = &v
	}
	f.Toilets = c.QueryParam("toilets") == "true"
	f.CellReception = c.QueryParam("cell_reception") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	camps, err := h.Camps.FindAll(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"camps": camps})
}

// Get handles GET /camps/:parkCode (anonymous). The response includes the
// users holding reservations on the camp.
func (h *CampHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	camp, guests, err := h.Camps.Get(ctx, c.Param("parkCode"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"camp": camp, "users": guests})
}

// Create handles POST /camps (admin only).
func (h *CampHandler) Create(c echo.Context) error {
	var req createCampReq
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.BadRequest("invalid body"))
	}
	req.ParkCode = strings.TrimSpace(req.ParkCode)
	if req.ParkCode == "" || strings.TrimSpace(req.ParkName) == "" {
		return fail(c, apperr.BadRequest("parkCode/parkName required"))
	}
	if req.Cost < 0 {
		return fail(c, apperr.BadRequest("cost must be non-negative"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	camp, err := h.Camps.Create(ctx, req.ParkCode, req.ParkName, req.Cost, req.ImageURL)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"camp": camp})
}

// Update handles PATCH /camps/:parkCode (admin only).
func (h *CampHandler) Update(c echo.Context) error {
	var upd repository.CampUpdate
	if err := c.Bind(&upd); err != nil {
		return fail(c, apperr.BadRequest("invalid body"))
	}
	if upd.Cost != nil && *upd.Cost < 0 {
		return fail(c, apperr.BadRequest("cost must be non-negative"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	camp, err := h.Camps.Update(ctx, c.Param("parkCode"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"camp": camp})
}

// Delete handles DELETE /camps/:parkCode (admin only). Facility rows and
// reservations referencing the camp cascade away with it.
func (h *CampHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	parkCode := c.Param("parkCode")
	if err := h.Camps.Delete(ctx, parkCode); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": parkCode})
}
