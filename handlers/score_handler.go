package handlers

import (
	"net/http"

	"quizmaster/services"

	"github.com/gin-gonic/gin"
)

type ScoreHandler struct {
	scoreService *services.ScoreService
	debug        bool
}

func NewScoreHandler(scoreService *services.ScoreService, debug bool) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
		debug:        debug,
	}
}

func (h *ScoreHandler) SubmitAnswers(c *gin.Context) {
	var req services.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.scoreService.SubmitAnswers(c.Request.Context(), c.Param("share_code"), &req)
	if err != nil {
		respondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ScoreHandler) GetRanking(c *gin.Context) {
	ranking, err := h.scoreService.GetRanking(c.Request.Context(), c.Param("share_code"))
	if err != nil {
		respondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, ranking)
}
