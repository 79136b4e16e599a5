package services

import (
	"strings"
	"unicode/utf8"

	"quizmaster/models"
)

const (
	maxTitleLength        = 200
	maxQuestionTextLength = 500
	maxOptionTextLength   = 200
	maxPlayerNameLength   = 100
)

// ValidateQuizRequest checks a quiz payload and returns a copy with all text
// trimmed. Every question needs at least one option and exactly one correct one.
func ValidateQuizRequest(req *CreateQuizRequest) (*CreateQuizRequest, error) {
	if req == nil {
		return nil, invalidInput("missing quiz payload")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalidInput("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, invalidInput("title exceeds %d characters", maxTitleLength)
	}
	if len(req.Questions) == 0 {
		return nil, invalidInput("at least one question is required")
	}

	out := &CreateQuizRequest{
		Title:     title,
		Questions: make([]CreateQuestionRequest, 0, len(req.Questions)),
	}

	for i, qReq := range req.Questions {
		text := strings.TrimSpace(qReq.QuestionText)
		if text == "" {
			return nil, invalidInput("question %d: question_text is required", i+1)
		}
		if utf8.RuneCountInString(text) > maxQuestionTextLength {
			return nil, invalidInput("question %d: question_text exceeds %d characters", i+1, maxQuestionTextLength)
		}
		if len(qReq.Options) == 0 {
			return nil, invalidInput("question %d: at least one option is required", i+1)
		}

		question := CreateQuestionRequest{
			QuestionText: text,
			Options:      make([]CreateOptionRequest, 0, len(qReq.Options)),
		}

		correctCount := 0
		for j, optReq := range qReq.Options {
			optText := strings.TrimSpace(optReq.OptionText)
			if optText == "" {
				return nil, invalidInput("question %d, option %d: option_text is required", i+1, j+1)
			}
			if utf8.RuneCountInString(optText) > maxOptionTextLength {
				return nil, invalidInput("question %d, option %d: option_text exceeds %d characters", i+1, j+1, maxOptionTextLength)
			}
			if optReq.IsCorrect {
				correctCount++
			}
			question.Options = append(question.Options, CreateOptionRequest{
				OptionText: optText,
				IsCorrect:  optReq.IsCorrect,
			})
		}
		if correctCount != 1 {
			return nil, invalidInput("question %d: must have exactly one correct option, got %d", i+1, correctCount)
		}

		out.Questions = append(out.Questions, question)
	}

	return out, nil
}

// normalizePlayerName trims the name, substitutes the anonymous sentinel for
// blank input and cuts overlong names to the column size.
func normalizePlayerName(name *string) string {
	if name == nil {
		return models.AnonymousPlayer
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return models.AnonymousPlayer
	}
	if utf8.RuneCountInString(trimmed) > maxPlayerNameLength {
		trimmed = strings.TrimSpace(string([]rune(trimmed)[:maxPlayerNameLength]))
	}
	return trimmed
}
