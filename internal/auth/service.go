// Package auth registers and authenticates users and issues their bearer tokens.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// Session is returned by Register and Login.
type Session struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

type SessionUser struct {
	ID    primitive.ObjectID `json:"id"`
	Email string             `json:"email"`
	Role  models.Role        `json:"role"`
	Name  string             `json:"name"`
}

type Service struct {
	users  store.UserStore
	tokens *Tokens
	logger *zap.Logger
	now    func() time.Time
}

func NewService(users store.UserStore, tokens *Tokens, logger *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	var details []string
	if name == "" {
		details = append(details, "name is required")
	}
	if !validEmail(email) {
		details = append(details, "email is invalid")
	}
	if len(in.Password) < MinPasswordLength {
		details = append(details, "password must be at least 6 characters")
	}
	if len(in.Password) > MaxPasswordLength {
		details = append(details, "password must be at most 72 bytes")
	}
	if len(details) > 0 {
		return nil, apperr.Validation("validation failed", details...)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("Email already in use")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Store("lookup user by email", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Store("hash password", err)
	}

	now := s.now()
	user := models.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		PasswordHash: hash,
		Role:         models.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Validation("Email already in use")
		}
		return nil, apperr.Store("insert user", err)
	}

	s.logger.Info("user registered", zap.String("email", email))
	return s.session(user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Auth("Invalid credentials")
	}
	if err != nil {
		return nil, apperr.Store("lookup user by email", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		s.logger.Info("login rejected", zap.String("email", user.Email))
		return nil, apperr.Auth("Invalid credentials")
	}

	s.logger.Info("login succeeded", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return s.session(*user)
}

func (s *Service) Me(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Store("lookup user", err)
	}
	return user, nil
}

// EnsureAdmin creates an administrator account unless the email is already taken.
// It reports whether a new account was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = normalizeEmail(email)
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return false, apperr.Validation("validation failed", "password must be between 6 and 72 bytes")
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, apperr.Store("lookup admin", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, apperr.Store("hash password", err)
	}

	now := s.now()
	admin := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, &admin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, apperr.Store("insert admin", err)
	}
	return true, nil
}

func (s *Service) session(user models.User) (*Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Store("sign token", err)
	}
	return &Session{
		Token: token,
		User:  SessionUser{ID: user.ID, Email: user.Email, Role: user.Role, Name: user.Name},
	}, nil
}
