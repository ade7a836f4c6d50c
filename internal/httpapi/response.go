package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/cadence/internal/app"
)

type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// statusFor maps a use-case error code onto an HTTP status.
func statusFor(code app.ErrorCode) int {
	switch code {
	case app.ErrValidationFailed:
		return http.StatusBadRequest
	case app.ErrPlanNotFound:
		return http.StatusNotFound
	case app.ErrDependencyFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err in the error envelope. Errors that are not
// GenerateErrors are reported as internal without leaking their text.
func RespondError(c *gin.Context, err error) {
	var ge *app.GenerateError
	if !errors.As(err, &ge) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{
			Error: APIError{Message: "internal error", Code: string(app.ErrInternal)},
		})
		return
	}
	if ge.Err != nil {
		_ = c.Error(ge.Err)
	}
	c.JSON(statusFor(ge.Code), ErrorEnvelope{
		Error: APIError{Message: ge.Message, Code: string(ge.Code), Fields: ge.Fields},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func bindError(err error) error {
	return app.ValidationError(map[string]string{"body": err.Error()})
}
