package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

const credentialsDetail = "Could not validate credentials"

// RegisterInput is the sign-up form
type RegisterInput struct {
	Username string          `json:"username" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	FullName *string         `json:"full_name,omitempty"`
	Location *model.Location `json:"location,omitempty"`
	Phone    *string         `json:"phone,omitempty"`
}

// LoginInput is the password login form
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Token is the bearer token handed out on login
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates an account. Username and email must both be unused.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	prometheus.RegisterCounter.Inc()

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.check(in); err != nil {
		prometheus.RecordAuthError("incomplete_registration")
		return nil, err
	}

	exists, err := s.store.UserExists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, eris.Wrap(err, "failed to check existing user")
	}
	if exists {
		s.log.Info("Registration rejected, user exists", zap.String("username", in.Username))
		prometheus.RecordAuthError("user_already_exists")
		return nil, newError(ErrConflict, "Username or email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		prometheus.RecordAuthError("password_hash_failed")
		return nil, eris.Wrap(err, "failed to hash password")
	}

	user := &model.User{
		ID:           model.NewID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Location:     in.Location,
		Phone:        in.Phone,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "Username or email already registered")
		}
		return nil, eris.Wrap(err, "failed to create user")
	}

	s.log.Info("User registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login checks the password and issues a bearer token for the username
func (s *Service) Login(ctx context.Context, in LoginInput) (*Token, error) {
	prometheus.LoginCounter.Inc()

	in.Username = strings.TrimSpace(in.Username)
	user, err := s.store.GetUserByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, eris.Wrap(err, "failed to load user")
	}
	if user == nil {
		prometheus.RecordAuthError("user_not_found")
		return nil, newError(ErrInvalidCredentials, "Incorrect username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		prometheus.RecordAuthError("invalid_password")
		return nil, newError(ErrInvalidCredentials, "Incorrect username or password")
	}

	token, err := s.tokens.GenerateToken(user.Username)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return nil, eris.Wrap(err, "failed to generate token")
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID))
	return &Token{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to its user. Every failure is the
// same unauthorized error.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	username, err := s.tokens.ValidateToken(token)
	if err != nil {
		prometheus.RecordAuthError("invalid_token")
		return nil, unauthorized(credentialsDetail)
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		prometheus.RecordAuthError("unknown_user")
		return nil, unauthorized(credentialsDetail)
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to load user")
	}
	return user, nil
}

// lookupUser is the machine-client identity check: the id comes from the
// payload and only has to exist
func (s *Service) lookupUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, badRequest("user_id required in data")
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found", "failed to load user")
	}
	return user, nil
}
