package services

import "quizmaster/models"

type AnswerInput struct {
	QuestionID uint  `json:"question_id"`
	OptionID   *uint `json:"option_id"`
}

type AnswerResult struct {
	QuestionID      uint  `json:"question_id"`
	CorrectOptionID *uint `json:"correct_option_id"`
	UserOptionID    *uint `json:"user_option_id"`
	IsCorrect       bool  `json:"is_correct"`
}

type Grade struct {
	Score          int
	TotalQuestions int
	Results        []AnswerResult
}

// correctOptions maps each question to its first option marked correct.
// Questions without a correct option are left out.
func correctOptions(quiz *models.Quiz) map[uint]uint {
	correct := make(map[uint]uint, len(quiz.Questions))
	for _, question := range quiz.Questions {
		for _, option := range question.Options {
			if option.IsCorrect {
				correct[question.ID] = option.ID
				break
			}
		}
	}
	return correct
}

// GradeAnswers scores answers against quiz, which must have its questions and
// options loaded. Results follow submission order; answers to unknown questions
// are reported with no correct option and never count.
func GradeAnswers(quiz *models.Quiz, answers []AnswerInput) Grade {
	correct := correctOptions(quiz)

	grade := Grade{
		TotalQuestions: len(quiz.Questions),
		Results:        make([]AnswerResult, 0, len(answers)),
	}

	for _, answer := range answers {
		result := AnswerResult{
			QuestionID:   answer.QuestionID,
			UserOptionID: answer.OptionID,
		}
		if optionID, ok := correct[answer.QuestionID]; ok {
			correctID := optionID
			result.CorrectOptionID = &correctID
			result.IsCorrect = answer.OptionID != nil && *answer.OptionID == optionID
		}
		if result.IsCorrect {
			grade.Score++
		}
		grade.Results = append(grade.Results, result)
	}

	return grade
}
