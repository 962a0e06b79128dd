package handler

import (
	"net/http"

	"food-ordering-api/internal/apperr"

	"github.com/labstack/echo/v4"
)

// Responses follow one JSON shape: {message, data} on success,
// {message, error} on failure; the taxonomy kind picks the status code.

type successBody struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respondData(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, successBody{Message: message, Data: data})
}

func respondError(c echo.Context, err error) error {
	if _, ok := err.(*echo.HTTPError); ok {
		return err // already shaped by echo middleware/binding
	}

	status := http.StatusInternalServerError
	message := "unexpected error"

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
		message = "invalid request"
	case apperr.KindNotFound:
		status = http.StatusNotFound
		message = "not found"
	case apperr.KindConflict:
		status = http.StatusConflict
		message = "conflict"
	case apperr.KindForbidden:
		status = http.StatusForbidden
		message = "forbidden"
	case apperr.KindExternal:
		status = http.StatusBadGateway
		message = "upstream service error"
	}

	body := errorBody{Message: message, Error: err.Error()}
	if status == http.StatusInternalServerError {
		// Do not leak internals to clients; log the cause here instead.
		c.Logger().Error("internal error: ", err)
		body.Error = ""
	}
	return c.JSON(status, body)
}
