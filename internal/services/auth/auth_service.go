package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/config"
	"github.com/youbairia/marketplace/internal/database"
	"github.com/youbairia/marketplace/internal/middleware"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/utils"
	"gorm.io/gorm"
)

// Service handles registration and login
type Service struct {
	db       *gorm.DB
	jwt      config.JWTConfig
	throttle *middleware.LoginThrottle
}

// NewService creates a new auth service
func NewService(db *gorm.DB, jwt config.JWTConfig, throttle *middleware.LoginThrottle) *Service {
	return &Service{db: db, jwt: jwt, throttle: throttle}
}

// RegisterInput is the input for Register
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// AuthResult is a signed token plus the authenticated user
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || email == "" {
		return nil, apperrors.New(apperrors.KindValidationFailed, "name and email are required")
	}
	if err := utils.ValidatePassword(input.Password); err != nil {
		return nil, apperrors.New(apperrors.KindValidationFailed, err.Error())
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin {
		return nil, apperrors.New(apperrors.KindValidationFailed, "cannot self-register as admin")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to hash password", err)
	}

	user := models.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.KindConflictState, "email already registered")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create user", err)
	}

	return s.issueToken(&user)
}

// Login authenticates a user by email and password. Failed attempts are
// counted in Redis and the account is throttled past the limit.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.New(apperrors.KindValidationFailed, "email and password are required")
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allowed(ctx, email)
		if err == nil && !allowed {
			return nil, apperrors.New(apperrors.KindAuthenticationRequired, "too many failed attempts, try again later")
		}
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailure(ctx, email)
			return nil, apperrors.New(apperrors.KindAuthenticationRequired, "invalid credentials")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up user", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return nil, apperrors.New(apperrors.KindAuthenticationRequired, "invalid credentials")
	}

	if s.throttle != nil {
		_ = s.throttle.Reset(ctx, email)
	}

	now := time.Now()
	s.db.WithContext(ctx).Model(&user).Update("last_login_at", now)
	user.LastLoginAt = &now

	return s.issueToken(&user)
}

// GetUser returns a user by id
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up user", err)
	}
	return &user, nil
}

func (s *Service) issueToken(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwt.Secret, time.Duration(s.jwt.Expiration)*time.Hour)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to sign token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.throttle != nil {
		_ = s.throttle.RecordFailure(ctx, email)
	}
}
