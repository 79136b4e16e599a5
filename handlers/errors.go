package handlers

import (
	"errors"
	"log"
	"net/http"

	"quizmaster/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// respondError maps service errors onto status codes. Underlying causes are
// only echoed to the client when debug is set; validation messages always are.
func respondError(c *gin.Context, err error, debug bool) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrGenerationFailed):
		message = "Quiz generation failed"
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
		message = "Quiz not found"
	case errors.Is(err, services.ErrCreationFailed):
		message = "Failed to create quiz"
	case errors.Is(err, services.ErrDeletionFailed):
		message = "Failed to delete quiz"
	}

	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	resp := ErrorResponse{Error: message}
	if debug && status != http.StatusBadRequest {
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

// respondBindError reports a malformed or incomplete request body.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: services.ErrInvalidInput.Error() + ": " + err.Error()})
}
