package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string            `json:"error_code"`
	Kind    Kind              `json:"kind,omitempty"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var messages = map[Kind]string{
	KindValidation:        "Invalid request data.",
	KindInvalidSchedule:   "The requested time cannot be booked.",
	KindSlotUnavailable:   "Someone else already booked this slot, please pick another time.",
	KindInvalidTransition: "This status change is not allowed.",
	KindNotAuthorized:     "You are not allowed to perform this action.",
	KindNotFound:          "Resource not found.",
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// StatusFor maps an error kind onto the HTTP status the gateways answer with.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindInvalidSchedule:
		return http.StatusUnprocessableEntity
	case KindSlotUnavailable, KindInvalidTransition:
		return http.StatusConflict
	case KindNotAuthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a structured body. It reports false for errors that
// are not business errors so the caller can log them before answering 500.
func Respond(c *gin.Context, err error) bool {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Unexpected error.")
		return false
	}

	c.JSON(StatusFor(be.Kind), HTTPError{
		Code:    be.Code,
		Kind:    be.Kind,
		Message: messages[be.Kind],
		Fields:  be.Fields,
	})
	return true
}
