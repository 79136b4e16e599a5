package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const shareCodeLength = 6

// generateShareCode trims a random UUID's hex form to shareCodeLength characters.
// Collisions are possible; CreateQuiz retries on a unique-index violation.
func generateShareCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:shareCodeLength]
}

// isDuplicateKey recognises unique-constraint violations, including from
// dialectors that do not translate them to gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
