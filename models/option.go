package models

type Option struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	OptionText string `json:"option_text" gorm:"size:200;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`
}
