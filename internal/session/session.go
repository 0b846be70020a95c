package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopapi/internal/models"
)

// TTL is how long an issued session stays valid without a logout.
const TTL = 24 * time.Hour

// ErrUnauthorized covers every way a token can fail to resolve: unknown,
// revoked or expired.
var ErrUnauthorized = errors.New("invalid or expired session")

// Service issues and resolves opaque session tokens backed by the sessions
// table. Tokens are random uuids, never derived from user data.
type Service struct {
	DB *gorm.DB
}

func (s *Service) Create(ctx context.Context, userID uint) (string, time.Time, error) {
	token := uuid.NewString()
	exp := time.Now().Add(TTL)

	sess := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: exp.Unix(),
		Revoked:   false,
	}
	if err := s.DB.WithContext(ctx).Create(&sess).Error; err != nil {
		return "", time.Time{}, fmt.Errorf("db error: %w", err)
	}
	return token, exp, nil
}

func (s *Service) Resolve(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, ErrUnauthorized
	}

	var stored models.Session
	if err := s.DB.WithContext(ctx).Where("token = ?", token).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnauthorized
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	if stored.Revoked {
		return 0, ErrUnauthorized
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return 0, ErrUnauthorized
	}
	return stored.UserID, nil
}

func (s *Service) Revoke(ctx context.Context, token string) error {
	result := s.DB.WithContext(ctx).Model(&models.Session{}).
		Where("token = ?", token).
		Update("revoked", true)
	if result.Error != nil {
		return fmt.Errorf("db error: %w", result.Error)
	}
	return nil
}
