package httputil

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/brightsmile/scheduling-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Reason  string           `json:"reason,omitempty"`
	Details []string         `json:"details,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response with the HTTP status implied by
// the application error code.
func RespondWithError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   &Error{Code: errors.ErrInternal, Message: "internal server error"},
		})
		return
	}

	c.JSON(statusFor(appErr.Code), Response{
		Success: false,
		Error: &Error{
			Code:    appErr.Code,
			Message: appErr.Message,
			Reason:  appErr.Reason,
			Details: appErr.Details,
		},
	})
}

// BindError converts a request binding failure into a bad-request error,
// listing each failed field when the failure came from struct validation.
func BindError(message string, err error) *errors.AppError {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s failed %q validation", strings.ToLower(fe.Field()), fe.Tag()))
		}
		appErr := errors.NewBadRequest(message, err)
		appErr.Details = details
		return appErr
	}
	return errors.NewBadRequest(message, err)
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrBadRequest, errors.ErrValidation, errors.ErrFormat:
		return http.StatusBadRequest
	case errors.ErrUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrForbidden:
		return http.StatusForbidden
	case errors.ErrTransient:
		return http.StatusBadGateway
	case errors.ErrPaymentCancelled, errors.ErrPaymentUnavailable, errors.ErrSubmitConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
