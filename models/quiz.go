package models

import "time"

type Quiz struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ShareCode string    `json:"share_code" gorm:"size:6;uniqueIndex;not null"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Scores    []Score    `json:"scores,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}
