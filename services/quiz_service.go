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

// maxShareCodeAttempts bounds retries after a share code collides with an existing quiz.
const maxShareCodeAttempts = 5

type QuizService struct {
	db           *gorm.DB
	cache        QuizCache
	events       EventPublisher
	newShareCode func() string
}

// NewQuizService wires the store. cache and events may be nil.
func NewQuizService(db *gorm.DB, cache QuizCache, events EventPublisher) *QuizService {
	return &QuizService{
		db:           db,
		cache:        cache,
		events:       events,
		newShareCode: generateShareCode,
	}
}

type CreateQuizRequest struct {
	Title     string                  `json:"title" binding:"required"`
	Questions []CreateQuestionRequest `json:"questions" binding:"required"`
}

type CreateQuestionRequest struct {
	QuestionText string                `json:"question_text"`
	Options      []CreateOptionRequest `json:"options"`
}

type CreateOptionRequest struct {
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

type CreateQuizResult struct {
	Message   string `json:"message"`
	ShareCode string `json:"share_code"`
	QuizID    uint   `json:"quiz_id"`
}

// PublicQuiz is what quiz takers see. None of these types carry option correctness.
type PublicQuiz struct {
	Title     string           `json:"title"`
	ShareCode string           `json:"share_code"`
	Questions []PublicQuestion `json:"questions"`
}

type PublicQuestion struct {
	ID           uint           `json:"id"`
	QuestionText string         `json:"question_text"`
	Options      []PublicOption `json:"options"`
}

type PublicOption struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
}

type QuizSummary struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	ShareCode     string `json:"share_code"`
	QuestionCount int64  `json:"question_count"`
}

func (s *QuizService) CreateQuiz(ctx context.Context, req *CreateQuizRequest) (*CreateQuizResult, error) {
	payload, err := ValidateQuizRequest(req)
	if err != nil {
		return nil, err
	}

	var quiz *models.Quiz
	for attempt := 1; attempt <= maxShareCodeAttempts; attempt++ {
		quiz, err = s.createQuizTx(ctx, payload, s.newShareCode())
		if err == nil {
			break
		}
		if !isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %v", ErrCreationFailed, err)
		}
		log.Printf("Share code collision creating quiz (attempt %d/%d)", attempt, maxShareCodeAttempts)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: no unique share code after %d attempts: %v", ErrCreationFailed, maxShareCodeAttempts, err)
	}

	log.Printf("Quiz %d created with share code %s (%d questions)", quiz.ID, quiz.ShareCode, len(payload.Questions))

	publishEvent(ctx, s.events, QueueQuizCreated, QuizCreatedEvent{
		QuizID:        quiz.ID,
		ShareCode:     quiz.ShareCode,
		Title:         quiz.Title,
		QuestionCount: len(payload.Questions),
		CreatedAt:     quiz.CreatedAt,
	})

	return &CreateQuizResult{
		Message:   "Quiz created successfully",
		ShareCode: quiz.ShareCode,
		QuizID:    quiz.ID,
	}, nil
}

// createQuizTx writes the quiz and all of its questions and options, or nothing.
func (s *QuizService) createQuizTx(ctx context.Context, req *CreateQuizRequest, shareCode string) (*models.Quiz, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	quiz := models.Quiz{
		ShareCode: shareCode,
		Title:     req.Title,
	}
	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, qReq := range req.Questions {
		question := models.Question{
			QuizID:       quiz.ID,
			QuestionText: qReq.QuestionText,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		for _, optReq := range qReq.Options {
			option := models.Option{
				QuestionID: question.ID,
				OptionText: optReq.OptionText,
				IsCorrect:  optReq.IsCorrect,
			}
			if err := tx.Create(&option).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &quiz, nil
}

// findQuiz loads a quiz by share code with questions and options in insertion order.
func findQuiz(ctx context.Context, db *gorm.DB, shareCode string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := db.WithContext(ctx).
		Where("share_code = ?", shareCode).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (s *QuizService) GetQuizByShareCode(ctx context.Context, shareCode string) (*PublicQuiz, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetQuiz(ctx, shareCode); ok {
			return cached, nil
		}
	}

	quiz, err := findQuiz(ctx, s.db, shareCode)
	if err != nil {
		return nil, err
	}

	public := redactQuiz(quiz)
	if s.cache != nil {
		s.cache.SetQuiz(ctx, shareCode, public)
	}
	return public, nil
}

// redactQuiz copies only ids and texts; option correctness is never carried over.
func redactQuiz(quiz *models.Quiz) *PublicQuiz {
	public := &PublicQuiz{
		Title:     quiz.Title,
		ShareCode: quiz.ShareCode,
		Questions: make([]PublicQuestion, len(quiz.Questions)),
	}
	for i, question := range quiz.Questions {
		pq := PublicQuestion{
			ID:           question.ID,
			QuestionText: question.QuestionText,
			Options:      make([]PublicOption, len(question.Options)),
		}
		for j, option := range question.Options {
			pq.Options[j] = PublicOption{
				ID:         option.ID,
				OptionText: option.OptionText,
			}
		}
		public.Questions[i] = pq
	}
	return public
}

// ListQuizzes returns every quiz, newest first.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]QuizSummary, error) {
	summaries := []QuizSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Select("quizzes.id, quizzes.title, quizzes.share_code, " +
			"(SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id) AS question_count").
		Order("quizzes.created_at DESC").
		Order("quizzes.id DESC").
		Scan(&summaries).Error
	return summaries, err
}

// DeleteQuiz removes the quiz with its questions, options and scores in one transaction.
// Dependents are deleted explicitly so the cascade holds even without enforced foreign keys.
func (s *QuizService) DeleteQuiz(ctx context.Context, shareCode string) error {
	var quiz models.Quiz
	if err := s.db.WithContext(ctx).Where("share_code = ?", shareCode).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrDeletionFailed, err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questionIDs := tx.Model(&models.Question{}).Select("id").Where("quiz_id = ?", quiz.ID)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Score{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Quiz{}, quiz.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrDeletionFailed, err)
	}

	if s.cache != nil {
		s.cache.DeleteQuiz(ctx, shareCode)
	}

	log.Printf("Quiz %d (%s) deleted", quiz.ID, shareCode)

	publishEvent(ctx, s.events, QueueQuizDeleted, QuizDeletedEvent{
		QuizID:    quiz.ID,
		ShareCode: shareCode,
		DeletedAt: time.Now().UTC(),
	})

	return nil
}

// CheckDatabase round-trips a trivial query to prove the store is reachable.
func (s *QuizService) CheckDatabase(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}
