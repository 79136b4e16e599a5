package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"quizmaster/config"
	"quizmaster/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.InitDB(&config.DBConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	db.Logger = logger.Discard

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func sampleQuizRequest() *CreateQuizRequest {
	return &CreateQuizRequest{
		Title: "Capitals",
		Questions: []CreateQuestionRequest{
			{
				QuestionText: "Capital of France?",
				Options: []CreateOptionRequest{
					{OptionText: "Paris", IsCorrect: true},
					{OptionText: "Lyon"},
					{OptionText: "Nice"},
				},
			},
			{
				QuestionText: "Capital of Spain?",
				Options: []CreateOptionRequest{
					{OptionText: "Barcelona"},
					{OptionText: "Madrid", IsCorrect: true},
					{OptionText: "Seville"},
				},
			},
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

type publishedEvent struct {
	queue string
	body  []byte
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) Publish(_ context.Context, queueName string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{queue: queueName, body: body})
	return nil
}

func (f *fakePublisher) queues() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.queue
	}
	return out
}

type fakeCache struct {
	quizzes map[string]*PublicQuiz
	gets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{quizzes: make(map[string]*PublicQuiz)}
}

func (f *fakeCache) GetQuiz(_ context.Context, shareCode string) (*PublicQuiz, bool) {
	f.gets++
	quiz, ok := f.quizzes[shareCode]
	return quiz, ok
}

func (f *fakeCache) SetQuiz(_ context.Context, shareCode string, quiz *PublicQuiz) {
	f.quizzes[shareCode] = quiz
}

func (f *fakeCache) DeleteQuiz(_ context.Context, shareCode string) {
	f.deletes++
	delete(f.quizzes, shareCode)
}
