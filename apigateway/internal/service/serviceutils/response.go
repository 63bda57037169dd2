package serviceutils

import (
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// ResponseSuccess writes body as JSON with code.
func ResponseSuccess(c echo.Context, code int, body interface{}) error {
	return c.JSON(code, body)
}

// ResponseError writes an ErrorResponse. err is exposed only when non-nil.
func ResponseError(c echo.Context, code int, msg string, err error) error {
	resp := ErrorResponse{
		Message: msg,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(code, resp)
}
