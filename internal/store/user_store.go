package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/musicu/api/internal/model"
)

var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when no account exists for an email.
	ErrUserNotFound = errors.New("user not found")
)

// UserStore persists registered accounts in Redis, keyed by email.
type UserStore struct {
	redis *redis.Client
}

func NewUserStore(redisClient *redis.Client) *UserStore {
	return &UserStore{redis: redisClient}
}

// Create stores a new user. Fails with ErrEmailTaken when the email is
// already registered.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	ok, err := s.redis.SetNX(ctx, userKey(user.Email), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if !ok {
		return ErrEmailTaken
	}
	return nil
}

// GetByEmail loads the account registered for an email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	data, err := s.redis.Get(ctx, userKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func userKey(email string) string {
	return fmt.Sprintf("user:email:%s", strings.ToLower(email))
}
