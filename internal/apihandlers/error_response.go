package apihandlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"phishdetect/internal/models"
)

// Error codes of the JSON envelope.
const (
	CodeBadRequest = "bad_request"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal_error"
)

// APIError is the body of every JSON error:
// { "error": { "code": "bad_request", "message": "url must not be empty" } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError aborts the request with the error envelope.
func JSONError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

func BadRequest(c *gin.Context, msg string) {
	JSONError(c, http.StatusBadRequest, CodeBadRequest, msg)
}

func NotFound(c *gin.Context, msg string) {
	JSONError(c, http.StatusNotFound, CodeNotFound, msg)
}

// DetectionError maps a Classify error onto the envelope: validation
// failures are the caller's fault, everything else is a 500. The error is
// recorded on the context for the request logger.
func DetectionError(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, models.ErrValidation) {
		BadRequest(c, userMessage(err))
		return
	}
	JSONError(c, http.StatusInternalServerError, CodeInternal, err.Error())
}
