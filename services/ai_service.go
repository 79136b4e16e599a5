package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultQuestionCount = 5
	MaxQuestionCount     = 20
	aiOptionsPerQuestion = 4
	maxTopicLength       = 200
)

type AIGenerateService struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
	timeout    time.Duration
}

func NewAIGenerateService(apiKey, apiURL, model string, timeout time.Duration) *AIGenerateService {
	return &AIGenerateService{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		model:      model,
		timeout:    timeout,
	}
}

func (s *AIGenerateService) IsAvailable() bool {
	return s.apiKey != ""
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const systemPrompt = `You are a quiz generator. Respond with ONLY a valid JSON object (no markdown, no code fences, no explanations) in exactly this format:

{
  "title": "Quiz title",
  "questions": [
    {
      "question_text": "Question text?",
      "options": [
        {"option_text": "Option A", "is_correct": true},
        {"option_text": "Option B", "is_correct": false},
        {"option_text": "Option C", "is_correct": false},
        {"option_text": "Option D", "is_correct": false}
      ]
    }
  ]
}

Rules:
- Every question has exactly 4 options
- Exactly one option per question has "is_correct": true
- Do not add any other keys
- Write everything in the same language as the topic
- Return ONLY the JSON object, nothing else`

func userPrompt(topic string, numQuestions int) string {
	return fmt.Sprintf("Create a multiple-choice quiz about %q with exactly %d questions.", topic, numQuestions)
}

// GenerateQuiz asks the provider for a quiz and returns it in the shape
// CreateQuiz accepts. Nothing is persisted here.
func (s *AIGenerateService) GenerateQuiz(ctx context.Context, topic string, numQuestions int) (*CreateQuizRequest, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalidInput("topic is required")
	}
	if len([]rune(topic)) > maxTopicLength {
		return nil, invalidInput("topic exceeds %d characters", maxTopicLength)
	}
	if numQuestions == 0 {
		numQuestions = DefaultQuestionCount
	}
	if numQuestions < 1 || numQuestions > MaxQuestionCount {
		return nil, invalidInput("num_questions must be between 1 and %d", MaxQuestionCount)
	}

	if !s.IsAvailable() {
		return nil, generationError(GenerationTransport, "AI generation is not configured")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	content, err := s.complete(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(topic, numQuestions)},
	})
	if err != nil {
		return nil, err
	}

	quiz, err := parseGeneratedQuiz(content)
	if err != nil {
		return nil, err
	}

	if len(quiz.Questions) != numQuestions {
		log.Printf("AI returned %d questions for topic %q, %d requested", len(quiz.Questions), topic, numQuestions)
	}
	return quiz, nil
}

// complete performs one chat-completions call and returns the first choice's content.
func (s *AIGenerateService) complete(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody := chatRequest{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", generationError(GenerationTransport, "failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", generationError(GenerationTransport, "failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", generationError(GenerationTransport, "API request timed out after %s: %w", s.timeout, err)
		}
		return "", generationError(GenerationTransport, "API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", generationError(GenerationTransport, "failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", generationError(GenerationTransport, "API returned status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", generationError(GenerationMalformed, "failed to parse API response: %v", err)
	}

	if chatResp.Error != nil {
		return "", generationError(GenerationTransport, "API error (%s): %s", chatResp.Error.Type, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", generationError(GenerationMalformed, "empty response from AI")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// parseGeneratedQuiz decodes model output strictly and checks it against the
// authoring rules plus the fixed option count the prompt demands.
func parseGeneratedQuiz(content string) (*CreateQuizRequest, error) {
	content = cleanJSONContent(content)

	decoder := json.NewDecoder(strings.NewReader(content))
	decoder.DisallowUnknownFields()

	var raw struct {
		Title     *string                 `json:"title"`
		Questions []CreateQuestionRequest `json:"questions"`
	}
	if err := decoder.Decode(&raw); err != nil {
		return nil, generationError(GenerationMalformed, "AI returned invalid JSON: %v", err)
	}
	if decoder.More() {
		return nil, generationError(GenerationMalformed, "AI returned trailing data after the JSON object")
	}
	if raw.Title == nil || raw.Questions == nil {
		return nil, generationError(GenerationMalformed, "AI response is missing title or questions")
	}

	quiz, err := ValidateQuizRequest(&CreateQuizRequest{Title: *raw.Title, Questions: raw.Questions})
	if err != nil {
		return nil, generationError(GenerationMalformed, "AI response has the wrong shape: %v", err)
	}

	for i, question := range quiz.Questions {
		if len(question.Options) != aiOptionsPerQuestion {
			return nil, generationError(GenerationMalformed, "question %d has %d options, want %d", i+1, len(question.Options), aiOptionsPerQuestion)
		}
	}

	return quiz, nil
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	}
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
