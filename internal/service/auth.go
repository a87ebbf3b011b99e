package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/goalpulse/goalpulse/internal/repository"
	"github.com/goalpulse/goalpulse/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError is returned for user input that fails validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

type AuthService struct {
	userRepository repository.UserRepository
	emailService   *EmailService
	jwtSecret      string
	jwtExpiry      time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	emailService *EmailService,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		emailService:   emailService,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
	}
}

// Register creates a user with the default passive notification preference.
func (s *AuthService) Register(ctx context.Context, name, email, password, phone string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	phone = validation.NormalizePhone(phone)

	if err := validation.ValidateName(name); err != nil {
		return nil, invalid("name", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, invalid("email", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, invalid("password", err)
	}
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, invalid("phone", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:                    uuid.New().String(),
		Name:                  name,
		Email:                 email,
		PasswordHash:          hash,
		Phone:                 phone,
		NotificationFrequency: model.NotifyPassive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.emailService != nil {
		err = s.emailService.SendWelcomeEmail(ctx, user.Email, user.Name)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.jwtExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT returns the user ID carried by a valid token.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}
