// Package httperr centralizes the JSON error body every endpoint returns.
// The shape is always {"error": string}; the status code carries the taxonomy:
// 400 invalid input, 401 missing identity, 404 no matching record, 500 store failure.
package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func JSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"error": msg})
}

func BadRequest(c echo.Context, msg string) error {
	return JSON(c, http.StatusBadRequest, msg)
}

func Unauthorized(c echo.Context, msg string) error {
	return JSON(c, http.StatusUnauthorized, msg)
}

func Forbidden(c echo.Context, msg string) error {
	return JSON(c, http.StatusForbidden, msg)
}

func NotFound(c echo.Context, msg string) error {
	return JSON(c, http.StatusNotFound, msg)
}

func Internal(c echo.Context, msg string) error {
	return JSON(c, http.StatusInternalServerError, msg)
}

// FromDB maps a lookup error to 404 when the record is missing and 500 otherwise.
func FromDB(c echo.Context, err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(c, notFoundMsg)
	}
	return Internal(c, internalMsg)
}
