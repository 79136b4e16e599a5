package routes

import (
	"errors"
	"log"
	"net/http"

	"quizmaster/handlers"
	"quizmaster/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handlers struct {
	Quiz   *handlers.QuizHandler
	Score  *handlers.ScoreHandler
	AI     *handlers.AIGenerateHandler
	Health *handlers.HealthHandler
}

func SetupRoutes(
	router *gin.Engine,
	h Handlers,
	hub *services.Hub,
	scoreService *services.ScoreService,
	frontendOrigin string,
) {
	api := router.Group("/api")
	{
		api.GET("/ping", h.Health.Ping)
		api.GET("/db-check", h.Health.DBCheck)

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", h.Quiz.ListQuizzes)
			quizzes.POST("", h.Quiz.CreateQuiz)
			quizzes.GET("/:share_code", h.Quiz.GetQuiz)
			quizzes.DELETE("/:share_code", h.Quiz.DeleteQuiz)
			quizzes.POST("/:share_code/submit", h.Score.SubmitAnswers)
			quizzes.GET("/:share_code/ranking", h.Score.GetRanking)
		}

		api.POST("/generate-quiz-ai", h.AI.Generate)
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == frontendOrigin
		},
	}

	// Live ranking feed: current ranking on connect, then one message per submission.
	router.GET("/ws/quizzes/:share_code/ranking", func(c *gin.Context) {
		shareCode := c.Param("share_code")

		ranking, err := scoreService.GetRanking(c.Request.Context(), shareCode)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "Quiz not found"})
				return
			}
			log.Printf("Failed to load ranking for quiz %s: %v", shareCode, err)
			c.JSON(http.StatusInternalServerError, handlers.ErrorResponse{Error: "Internal server error"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for quiz %s: %v", shareCode, err)
			return
		}

		hub.RegisterClient(conn, shareCode, ranking)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
