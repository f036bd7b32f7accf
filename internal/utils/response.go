package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response defines the standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorInfo provides details for error responses.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta: Meta{
			RequestID: getRequestID(c),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, Response{
		Success: false,
		Code:    code,
		Message: message,
		Error: &ErrorInfo{
			Code:    errCode,
			Message: message,
		},
		Meta: Meta{
			RequestID: getRequestID(c),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

// Fail maps err to its HTTP status and error code and writes the envelope.
// Unknown errors become a 500 without leaking the cause.
func Fail(c *gin.Context, err error) {
	status, code := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	Error(c, status, code, message)
}

// StatusFor returns the HTTP status and API error code for err.
func StatusFor(err error) (int, string) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.status, m.err.Error()
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

var errorStatus = []struct {
	err    error
	status int
}{
	{ErrInvalidToken, http.StatusUnauthorized},
	{ErrInvalidLoginCode, http.StatusUnauthorized},
	{ErrInvalidEmail, http.StatusBadRequest},
	{ErrMissingFields, http.StatusBadRequest},
	{ErrInvalidAttendee, http.StatusBadRequest},
	{ErrInvalidCoupon, http.StatusBadRequest},
	{ErrNothingToPurchase, http.StatusBadRequest},
	{ErrInvalidPaymentStatus, http.StatusBadRequest},
	{ErrInvalidSignature, http.StatusUnauthorized},
	{ErrCitizenNotFound, http.StatusNotFound},
	{ErrPopupNotFound, http.StatusNotFound},
	{ErrApplicationNotFound, http.StatusNotFound},
	{ErrAttendeeNotFound, http.StatusNotFound},
	{ErrProductNotFound, http.StatusNotFound},
	{ErrPaymentNotFound, http.StatusNotFound},
	{ErrApplicationNotAccepted, http.StatusForbidden},
	{ErrApplicationSubmitted, http.StatusConflict},
	{ErrMainAttendeeImmutable, http.StatusConflict},
	{ErrAttendeeHasProducts, http.StatusConflict},
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
