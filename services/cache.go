package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuizCache stores redacted quiz projections. Failures are never fatal to a
// request; implementations log and report a miss instead.
type QuizCache interface {
	GetQuiz(ctx context.Context, shareCode string) (*PublicQuiz, bool)
	SetQuiz(ctx context.Context, shareCode string, quiz *PublicQuiz)
	DeleteQuiz(ctx context.Context, shareCode string)
}

type RedisQuizCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisQuizCache(client *redis.Client, ttl time.Duration) *RedisQuizCache {
	return &RedisQuizCache{redis: client, ttl: ttl}
}

func quizCacheKey(shareCode string) string {
	return "quiz:" + shareCode
}

func (c *RedisQuizCache) GetQuiz(ctx context.Context, shareCode string) (*PublicQuiz, bool) {
	data, err := c.redis.Get(ctx, quizCacheKey(shareCode)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting quiz %s: %v", shareCode, err)
		}
		return nil, false
	}

	var quiz PublicQuiz
	if err := json.Unmarshal([]byte(data), &quiz); err != nil {
		log.Printf("Failed to unmarshal cached quiz %s: %v", shareCode, err)
		return nil, false
	}
	return &quiz, true
}

func (c *RedisQuizCache) SetQuiz(ctx context.Context, shareCode string, quiz *PublicQuiz) {
	data, err := json.Marshal(quiz)
	if err != nil {
		log.Printf("Failed to marshal quiz %s for cache: %v", shareCode, err)
		return
	}
	if err := c.redis.Set(ctx, quizCacheKey(shareCode), data, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache quiz %s: %v", shareCode, err)
	}
}

func (c *RedisQuizCache) DeleteQuiz(ctx context.Context, shareCode string) {
	if err := c.redis.Del(ctx, quizCacheKey(shareCode)).Err(); err != nil {
		log.Printf("Failed to evict quiz %s from cache: %v", shareCode, err)
	}
}
