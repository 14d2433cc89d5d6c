package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ventureforge/forge/internal/db/models"
	"github.com/ventureforge/forge/internal/db/repos"
)

// DefaultTokenTTL is how long an issued token remains valid
const DefaultTokenTTL = 24 * time.Hour

// User handles registration and authentication
type User struct {
	repo      *repos.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewUserService creates a new instance of the user service
func NewUserService(repo *repos.UserRepository, jwtSecret string) *User {
	return &User{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  DefaultTokenTTL,
	}
}

// Register creates a new user with a bcrypt-hashed password
func (s *User) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          email,
		Name:           name,
		HashedPassword: string(hashed),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a signed token
func (s *User) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a token and returns the user ID it carries
func (s *User) VerifyToken(tokenStr string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, fmt.Errorf("invalid token subject")
	}
	return uint(sub), nil
}
