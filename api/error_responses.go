package api

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/merchpilot/reco-console/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeRuleNotFound     ErrorCode = "RULE_NOT_FOUND"
	ErrorCodeProductNotFound  ErrorCode = "PRODUCT_NOT_FOUND"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery     ErrorCode = "INVALID_QUERY"
	ErrorCodeRateLimited      ErrorCode = "RATE_LIMITED"

	// Server Error Codes (5xx)
	ErrorCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrorCodeBadBackendResponse ErrorCode = "BAD_BACKEND_RESPONSE"
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendRuleNotFoundError sends a standardized rule not found error
func SendRuleNotFoundError(c *gin.Context, ruleID string) {
	SendError(c, http.StatusNotFound, ErrorCodeRuleNotFound,
		"Rule '"+ruleID+"' not found")
}

// SendInvalidJSONError sends a standardized malformed body error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid request body: "+err.Error())
}

// SendServiceError maps a service-layer error to the appropriate HTTP
// response. Typed errors carry their own detail; anything unrecognized
// is an internal error.
func SendServiceError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if stderrors.As(err, &validationErr) {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed,
			"Request validation failed",
			ErrorDetail{Field: validationErr.Field, Message: validationErr.Message, Code: "VALIDATION_ERROR"})
		return
	}

	var notFoundErr *apperrors.RuleNotFoundError
	if stderrors.As(err, &notFoundErr) {
		SendRuleNotFoundError(c, notFoundErr.RuleID)
		return
	}

	switch {
	case stderrors.Is(err, apperrors.ErrRuleNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeRuleNotFound, err.Error())
	case stderrors.Is(err, apperrors.ErrProductNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeProductNotFound, err.Error())
	case stderrors.Is(err, apperrors.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	case stderrors.Is(err, apperrors.ErrBackendUnavailable):
		SendError(c, http.StatusBadGateway, ErrorCodeBackendUnavailable,
			"Recommendation backend unavailable: "+err.Error())
	case stderrors.Is(err, apperrors.ErrBadResponse):
		SendError(c, http.StatusBadGateway, ErrorCodeBadBackendResponse, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
	}
}
