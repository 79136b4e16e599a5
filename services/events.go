package services

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	QueueQuizCreated    = "quiz.created"
	QueueQuizDeleted    = "quiz.deleted"
	QueueScoreSubmitted = "score.submitted"
)

// EventPublisher delivers a JSON body to a named queue.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

type QuizCreatedEvent struct {
	QuizID        uint      `json:"quiz_id"`
	ShareCode     string    `json:"share_code"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuizDeletedEvent struct {
	QuizID    uint      `json:"quiz_id"`
	ShareCode string    `json:"share_code"`
	DeletedAt time.Time `json:"deleted_at"`
}

type ScoreSubmittedEvent struct {
	QuizID         uint      `json:"quiz_id"`
	ShareCode      string    `json:"share_code"`
	PlayerName     string    `json:"player_name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// publishEvent is fire-and-forget: the database write has already committed.
func publishEvent(ctx context.Context, publisher EventPublisher, queueName string, event interface{}) {
	if publisher == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", queueName, err)
		return
	}

	if err := publisher.Publish(ctx, queueName, body); err != nil {
		log.Printf("Failed to publish %s event: %v", queueName, err)
	}
}
