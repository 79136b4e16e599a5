package models

import "time"

// AnonymousPlayer is stored when a submission carries no usable player name.
const AnonymousPlayer = "Anonymous"

// Score is append-only: one row per submission, removed only with its quiz.
type Score struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	QuizID         uint      `json:"quiz_id" gorm:"not null;index"`
	PlayerName     string    `json:"player_name" gorm:"size:100;not null;default:'Anonymous'"`
	Score          int       `json:"score" gorm:"not null;default:0"`
	TotalQuestions int       `json:"total_questions" gorm:"not null;default:0"`
	SubmittedAt    time.Time `json:"submitted_at" gorm:"not null;index"`
}
