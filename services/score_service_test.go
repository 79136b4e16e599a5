package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"quizmaster/models"
)

type fakeBroadcaster struct {
	mu       sync.Mutex
	calls    int
	lastCode string
	last     []RankingEntry
}

func (f *fakeBroadcaster) BroadcastRanking(shareCode string, ranking []RankingEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCode = shareCode
	f.last = ranking
}

// createSampleQuiz stores the sample quiz and returns it fully loaded.
func createSampleQuiz(t *testing.T, svc *QuizService) *models.Quiz {
	t.Helper()
	result, err := svc.CreateQuiz(context.Background(), sampleQuizRequest())
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	quiz, err := findQuiz(context.Background(), svc.db, result.ShareCode)
	if err != nil {
		t.Fatalf("findQuiz: %v", err)
	}
	return quiz
}

func correctAnswers(quiz *models.Quiz) []AnswerInput {
	answers := make([]AnswerInput, 0, len(quiz.Questions))
	for _, question := range quiz.Questions {
		for _, option := range question.Options {
			if option.IsCorrect {
				id := option.ID
				answers = append(answers, AnswerInput{QuestionID: question.ID, OptionID: &id})
			}
		}
	}
	return answers
}

func TestSubmitAnswersAllCorrect(t *testing.T) {
	db := newTestDB(t)
	quiz := createSampleQuiz(t, NewQuizService(db, nil, nil))
	events := &fakePublisher{}
	broadcaster := &fakeBroadcaster{}
	svc := NewScoreService(db, events, broadcaster)

	name := "Ada"
	result, err := svc.SubmitAnswers(context.Background(), quiz.ShareCode, &SubmitAnswersRequest{
		Answers:    correctAnswers(quiz),
		PlayerName: &name,
	})
	if err != nil {
		t.Fatalf("SubmitAnswers returned error: %v", err)
	}
	if result.Score != result.TotalQuestions || result.Score != 2 {
		t.Fatalf("score = %d/%d, want 2/2", result.Score, result.TotalQuestions)
	}
	for i, r := range result.Results {
		if !r.IsCorrect {
			t.Errorf("Results[%d].IsCorrect = false", i)
		}
	}

	if got := events.queues(); len(got) != 1 || got[0] != QueueScoreSubmitted {
		t.Fatalf("events = %v, want [%s]", got, QueueScoreSubmitted)
	}
	if broadcaster.calls != 1 || broadcaster.lastCode != quiz.ShareCode || len(broadcaster.last) != 1 {
		t.Fatalf("broadcast = %d calls to %q with %v", broadcaster.calls, broadcaster.lastCode, broadcaster.last)
	}
	if broadcaster.last[0].PlayerName != "Ada" {
		t.Fatalf("broadcast ranking = %+v", broadcaster.last)
	}
}

func TestSubmitAnswersEmptyStillRecordsScore(t *testing.T) {
	db := newTestDB(t)
	quiz := createSampleQuiz(t, NewQuizService(db, nil, nil))
	svc := NewScoreService(db, nil, nil)

	result, err := svc.SubmitAnswers(context.Background(), quiz.ShareCode, &SubmitAnswersRequest{Answers: []AnswerInput{}})
	if err != nil {
		t.Fatalf("SubmitAnswers returned error: %v", err)
	}
	if result.Score != 0 || result.TotalQuestions != 2 {
		t.Fatalf("result = %+v, want 0/2", result)
	}
	data, _ := json.Marshal(result)
	var decoded map[string]json.RawMessage
	_ = json.Unmarshal(data, &decoded)
	if string(decoded["results"]) != "[]" {
		t.Fatalf("results = %s, want []", decoded["results"])
	}

	var scores []models.Score
	db.Find(&scores)
	if len(scores) != 1 {
		t.Fatalf("score rows = %d, want 1", len(scores))
	}
	if scores[0].TotalQuestions != 2 || scores[0].Score != 0 || scores[0].PlayerName != models.AnonymousPlayer {
		t.Fatalf("stored score = %+v", scores[0])
	}
}

func TestSubmitAnswersPlayerName(t *testing.T) {
	db := newTestDB(t)
	quiz := createSampleQuiz(t, NewQuizService(db, nil, nil))
	svc := NewScoreService(db, nil, nil)

	for _, name := range []string{"   ", "  Grace  "} {
		n := name
		if _, err := svc.SubmitAnswers(context.Background(), quiz.ShareCode, &SubmitAnswersRequest{Answers: []AnswerInput{}, PlayerName: &n}); err != nil {
			t.Fatalf("SubmitAnswers: %v", err)
		}
	}

	var scores []models.Score
	db.Order("id").Find(&scores)
	if scores[0].PlayerName != models.AnonymousPlayer {
		t.Errorf("blank name stored as %q", scores[0].PlayerName)
	}
	if scores[1].PlayerName != "Grace" {
		t.Errorf("name stored as %q, want Grace", scores[1].PlayerName)
	}
}

func TestSubmitAnswersErrors(t *testing.T) {
	db := newTestDB(t)
	quiz := createSampleQuiz(t, NewQuizService(db, nil, nil))
	svc := NewScoreService(db, nil, nil)

	if _, err := svc.SubmitAnswers(context.Background(), quiz.ShareCode, &SubmitAnswersRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing answers: err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.SubmitAnswers(context.Background(), "zzzzzz", &SubmitAnswersRequest{Answers: []AnswerInput{}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown quiz: err = %v, want ErrNotFound", err)
	}
	if n := countRows(t, db, &models.Score{}); n != 0 {
		t.Fatalf("scores = %d after failed submissions, want 0", n)
	}
}

func TestGetRankingOrder(t *testing.T) {
	db := newTestDB(t)
	quiz := createSampleQuiz(t, NewQuizService(db, nil, nil))
	svc := NewScoreService(db, nil, nil)

	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	rows := []models.Score{
		{QuizID: quiz.ID, PlayerName: "late", Score: 80, TotalQuestions: 100, SubmittedAt: day.Add(10 * time.Hour)},
		{QuizID: quiz.ID, PlayerName: "early", Score: 80, TotalQuestions: 100, SubmittedAt: day.Add(9 * time.Hour)},
		{QuizID: quiz.ID, PlayerName: "low", Score: 60, TotalQuestions: 100, SubmittedAt: day.Add(8 * time.Hour)},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("insert scores: %v", err)
	}

	ranking, err := svc.GetRanking(context.Background(), quiz.ShareCode)
	if err != nil {
		t.Fatalf("GetRanking returned error: %v", err)
	}

	want := []RankingEntry{
		{PlayerName: "early", Score: 80, TotalQuestions: 100, SubmittedAt: "07-03-2024 09:00"},
		{PlayerName: "late", Score: 80, TotalQuestions: 100, SubmittedAt: "07-03-2024 10:00"},
		{PlayerName: "low", Score: 60, TotalQuestions: 100, SubmittedAt: "07-03-2024 08:00"},
	}
	if len(ranking) != len(want) {
		t.Fatalf("len(ranking) = %d, want %d", len(ranking), len(want))
	}
	for i := range want {
		if ranking[i] != want[i] {
			t.Errorf("ranking[%d] = %+v, want %+v", i, ranking[i], want[i])
		}
	}
}

func TestGetRankingEmptyAndNotFound(t *testing.T) {
	db := newTestDB(t)
	quiz := createSampleQuiz(t, NewQuizService(db, nil, nil))
	svc := NewScoreService(db, nil, nil)

	ranking, err := svc.GetRanking(context.Background(), quiz.ShareCode)
	if err != nil || ranking == nil || len(ranking) != 0 {
		t.Fatalf("GetRanking = (%v, %v), want empty non-nil slice", ranking, err)
	}
	if _, err := svc.GetRanking(context.Background(), "zzzzzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitAnswersUsesUTCTimestamp(t *testing.T) {
	db := newTestDB(t)
	quiz := createSampleQuiz(t, NewQuizService(db, nil, nil))
	svc := NewScoreService(db, nil, nil)

	local := time.FixedZone("UTC+5", 5*60*60)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 0, 0, local) }

	if _, err := svc.SubmitAnswers(context.Background(), quiz.ShareCode, &SubmitAnswersRequest{Answers: []AnswerInput{}}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	ranking, err := svc.GetRanking(context.Background(), quiz.ShareCode)
	if err != nil {
		t.Fatalf("GetRanking: %v", err)
	}
	if ranking[0].SubmittedAt != "01-01-2024 22:04" {
		t.Fatalf("SubmittedAt = %q, want 01-01-2024 22:04", ranking[0].SubmittedAt)
	}
}
