package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies failures for the HTTP boundary.
type ErrorKind string

const (
	KindValidation        ErrorKind = "ValidationError"
	KindNotFound          ErrorKind = "NotFound"
	KindInsufficientStock ErrorKind = "InsufficientStock"
	KindConflict          ErrorKind = "Conflict"
	KindStore             ErrorKind = "StoreError"
	KindRender            ErrorKind = "RenderError"
	KindScriptNotFound    ErrorKind = "ScriptNotFound"
	KindPredictionFailed  ErrorKind = "PredictionFailed"
	KindInvalidResult     ErrorKind = "InvalidResult"
)

var kindStatus = map[ErrorKind]int{
	KindValidation:        http.StatusBadRequest,
	KindNotFound:          http.StatusNotFound,
	KindInsufficientStock: http.StatusBadRequest,
	KindConflict:          http.StatusConflict,
	KindStore:             http.StatusInternalServerError,
	KindRender:            http.StatusInternalServerError,
	KindScriptNotFound:    http.StatusInternalServerError,
	KindPredictionFailed:  http.StatusInternalServerError,
	KindInvalidResult:     http.StatusInternalServerError,
}

// AppError is a classified failure carrying a client-facing message and
// optional details.
type AppError struct {
	Kind    ErrorKind
	Message string
	Details string
	Err     error
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status code.
func (e *AppError) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func NewAppError(kind ErrorKind, message string, cause error) *AppError {
	e := &AppError{Kind: kind, Message: message, Err: cause}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func StoreError(message string, cause error) *AppError {
	return NewAppError(KindStore, message, cause)
}

// KindOf returns the kind of the first AppError in err's chain, or "" when
// there is none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// ErrorResponse defines the structure of error responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response.
func JSONError(c *gin.Context, status int, message string, details string) {
	logger := GetLogger()
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.String("details", details), zap.String("path", c.FullPath()))
	} else {
		logger.Warn(message, zap.String("details", details), zap.String("path", c.FullPath()))
	}
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// RespondError converts err to a JSON error response. Unclassified errors
// are reported as internal errors with the cause in details.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		JSONError(c, appErr.Status(), appErr.Message, appErr.Details)
		return
	}
	JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
}
