package security

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/securelog/admin-api/internal/core/domain"
	"github.com/securelog/admin-api/internal/pkg/metrics"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// BcryptEncoder hashes passwords with bcrypt. The salt is embedded in the
// digest, so Verify needs only the stored hash.
type BcryptEncoder struct {
	cost int
}

// NewBcryptEncoder returns an encoder using cost, or bcrypt.DefaultCost when
// cost is outside bcrypt's accepted range.
func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptEncoder{cost: cost}
}

// Hash returns domain.ErrPasswordTooLong for input bcrypt would reject.
func (e *BcryptEncoder) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	start := time.Now()
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), e.cost)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (e *BcryptEncoder) Verify(hash, plaintext string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
}
