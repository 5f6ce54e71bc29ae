package response

import (
	"net/http"

	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteSuccessResponse(c echo.Context, payload interface{}) error {
	return c.JSON(http.StatusOK, payload)
}

func WriteErrorResponse(c echo.Context, err error) error {
	statusCode := errs.GetErrorStatusCode(err)

	return c.JSON(statusCode, ErrorResponse{Error: err.Error()})
}
