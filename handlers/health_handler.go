package handlers

import (
	"net/http"

	"quizmaster/services"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	quizService *services.QuizService
	debug       bool
}

func NewHealthHandler(quizService *services.QuizService, debug bool) *HealthHandler {
	return &HealthHandler{
		quizService: quizService,
		debug:       debug,
	}
}

func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "pong!"})
}

func (h *HealthHandler) DBCheck(c *gin.Context) {
	if err := h.quizService.CheckDatabase(c.Request.Context()); err != nil {
		resp := ErrorResponse{Error: "Database connection failed"}
		if h.debug {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Database connection successful"})
}
