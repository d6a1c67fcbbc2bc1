package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jondawson917/snappycamper/internal/apperr"
	"github.com/jondawson917/snappycamper/internal/repository"
)

// FacilityHandler serves the amenity extension of camps. Reads are anonymous;
// writes are admin only.
type FacilityHandler struct {
	Facilities *repository.FacilityRepo
}

func NewFacilityHandler(fr *repository.FacilityRepo) *FacilityHandler {
	return &FacilityHandler{Facilities: fr}
}

// List handles GET /facilities.
func (h *FacilityHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	facilities, err := h.Facilities.FindAll(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"facilities": facilities})
}

// Get handles GET /facilities/:parkCode.
func (h *FacilityHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	f, err := h.Facilities.Get(ctx, c.Param("parkCode"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"facility": f})
}

// Create handles POST /facilities (admin only).
func (h *FacilityHandler) Create(c echo.Context) error {
	var f repository.Facility
	if err := c.Bind(&f); err != nil {
		return fail(c, apperr.BadRequest("invalid body"))
	}
	if strings.TrimSpace(f.ParkCode) == "" {
		return fail(c, apperr.BadRequest("parkCode required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	created, err := h.Facilities.Create(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"facility": created})
}

// Update handles PATCH /facilities/:parkCode (admin only).
func (h *FacilityHandler) Update(c echo.Context) error {
	var upd repository.FacilityUpdate
	if err := c.Bind(&upd); err != nil {
		return fail(c, apperr.BadRequest("invalid body"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	f, err := h.Facilities.Update(ctx, c.Param("parkCode"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"facility": f})
}

// Delete handles DELETE /facilities/:parkCode (admin only).
func (h *FacilityHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	parkCode := c.Param("parkCode")
	if err := h.Facilities.Delete(ctx, parkCode); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": parkCode})
}
