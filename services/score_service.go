package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"quizmaster/models"

	"gorm.io/gorm"
)

// RankingTimeLayout renders submitted_at as day-month-year hour:minute.
const RankingTimeLayout = "02-01-2006 15:04"

// RankingBroadcaster pushes a fresh ranking to live subscribers of a quiz.
type RankingBroadcaster interface {
	BroadcastRanking(shareCode string, ranking []RankingEntry)
}

type ScoreService struct {
	db          *gorm.DB
	events      EventPublisher
	broadcaster RankingBroadcaster
	now         func() time.Time
}

// NewScoreService wires grading and ranking. events and broadcaster may be nil.
func NewScoreService(db *gorm.DB, events EventPublisher, broadcaster RankingBroadcaster) *ScoreService {
	return &ScoreService{
		db:          db,
		events:      events,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

type SubmitAnswersRequest struct {
	Answers    []AnswerInput `json:"answers" binding:"required"`
	PlayerName *string       `json:"player_name"`
}

type SubmissionResult struct {
	Score          int            `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	Results        []AnswerResult `json:"results"`
}

type RankingEntry struct {
	PlayerName     string `json:"player_name"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	SubmittedAt    string `json:"submitted_at"`
}

// SubmitAnswers grades a submission and records exactly one score row for it,
// even when no answers were given.
func (s *ScoreService) SubmitAnswers(ctx context.Context, shareCode string, req *SubmitAnswersRequest) (*SubmissionResult, error) {
	if req == nil || req.Answers == nil {
		return nil, invalidInput("answers are required")
	}

	quiz, err := findQuiz(ctx, s.db, shareCode)
	if err != nil {
		return nil, err
	}

	grade := GradeAnswers(quiz, req.Answers)

	score := models.Score{
		QuizID:         quiz.ID,
		PlayerName:     normalizePlayerName(req.PlayerName),
		Score:          grade.Score,
		TotalQuestions: grade.TotalQuestions,
		SubmittedAt:    s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&score).Error; err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	log.Printf("Score recorded for quiz %s: %s %d/%d", shareCode, score.PlayerName, score.Score, score.TotalQuestions)

	publishEvent(ctx, s.events, QueueScoreSubmitted, ScoreSubmittedEvent{
		QuizID:         quiz.ID,
		ShareCode:      shareCode,
		PlayerName:     score.PlayerName,
		Score:          score.Score,
		TotalQuestions: score.TotalQuestions,
		SubmittedAt:    score.SubmittedAt,
	})

	if s.broadcaster != nil {
		if ranking, err := s.rankingForQuiz(ctx, quiz.ID); err != nil {
			log.Printf("Failed to load ranking for broadcast on quiz %s: %v", shareCode, err)
		} else {
			s.broadcaster.BroadcastRanking(shareCode, ranking)
		}
	}

	return &SubmissionResult{
		Score:          grade.Score,
		TotalQuestions: grade.TotalQuestions,
		Results:        grade.Results,
	}, nil
}

// GetRanking orders scores by score descending; ties go to the earlier submission.
func (s *ScoreService) GetRanking(ctx context.Context, shareCode string) ([]RankingEntry, error) {
	var quiz models.Quiz
	if err := s.db.WithContext(ctx).Select("id").Where("share_code = ?", shareCode).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.rankingForQuiz(ctx, quiz.ID)
}

func (s *ScoreService) rankingForQuiz(ctx context.Context, quizID uint) ([]RankingEntry, error) {
	var scores []models.Score
	err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("score DESC").
		Order("submitted_at ASC").
		Order("id ASC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}

	ranking := make([]RankingEntry, len(scores))
	for i, score := range scores {
		ranking[i] = RankingEntry{
			PlayerName:     score.PlayerName,
			Score:          score.Score,
			TotalQuestions: score.TotalQuestions,
			SubmittedAt:    score.SubmittedAt.UTC().Format(RankingTimeLayout),
		}
	}
	return ranking, nil
}
