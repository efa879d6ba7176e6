package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the error body returned by the scoring and
// evaluation endpoints.
type ErrorResponse struct {
	Error string `json:"error" example:"products must not be empty"`
}

// StatusResponse is the body returned by the health endpoints.
type StatusResponse struct {
	Status string `json:"status" example:"ready"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func serverError(c echo.Context, code int, msg string) error {
	return c.JSON(code, ErrorResponse{Error: msg})
}
