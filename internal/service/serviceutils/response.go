package serviceutils

import (
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body sent for failed requests.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ResponseError writes a JSON error body with the given status.
func ResponseError(c echo.Context, status int, msg string, err error) error {
	resp := ErrorResponse{Message: msg}
	if err != nil {
		resp.Detail = err.Error()
	}
	return c.JSON(status, resp)
}
