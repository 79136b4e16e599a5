package handlers

import (
	"net/http"

	"quizmaster/services"

	"github.com/gin-gonic/gin"
)

type AIGenerateHandler struct {
	aiService *services.AIGenerateService
	debug     bool
}

func NewAIGenerateHandler(aiService *services.AIGenerateService, debug bool) *AIGenerateHandler {
	return &AIGenerateHandler{
		aiService: aiService,
		debug:     debug,
	}
}

type GenerateQuizRequest struct {
	Topic        string `json:"topic" binding:"required"`
	NumQuestions int    `json:"num_questions"`
}

// Generate returns a quiz payload ready for POST /api/quizzes. It does not save it.
func (h *AIGenerateHandler) Generate(c *gin.Context) {
	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	quiz, err := h.aiService.GenerateQuiz(c.Request.Context(), req.Topic, req.NumQuestions)
	if err != nil {
		respondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, quiz)
}
