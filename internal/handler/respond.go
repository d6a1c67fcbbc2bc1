package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

// fail maps a typed application error to its HTTP response. Anything that is
// not a known kind is reported as a bare 500 so store or driver details never
// reach the client.
func fail(c echo.Context, err error) error {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = "internal server error"
	}
	return c.JSON(status, echo.Map{"error": msg})
}
