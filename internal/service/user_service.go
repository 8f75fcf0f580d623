package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/musicu/api/internal/auth"
	"github.com/musicu/api/internal/model"
	"github.com/musicu/api/internal/store"
)

// ErrInvalidCredentials is returned when login email/password do not match an
// account. The same error covers both unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserService handles account registration and login
type UserService struct {
	users     *store.UserStore
	jwtSecret string
	tokenTTL  time.Duration
}

// NewUserService creates a user service signing tokens with jwtSecret
func NewUserService(users *store.UserStore, jwtSecret string, expirationHours int) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  time.Duration(expirationHours) * time.Hour,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return &model.RegisterResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// Login verifies credentials and returns a signed session token.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Name, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	resp := &model.LoginResponse{Token: token}
	resp.User.ID = user.ID
	resp.User.Name = user.Name
	resp.User.Email = user.Email
	return resp, nil
}
