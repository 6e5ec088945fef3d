package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cosechaencope/marketplace/internal/core/domain"
	"github.com/cosechaencope/marketplace/internal/core/ports"
)

// TokenRevoker abstracts the revocation store (Redis).
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthService implements registration, login, and logout.
type AuthService struct {
	repo      ports.UserRepository
	revoker   TokenRevoker
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, revoker TokenRevoker, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, revoker: revoker, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.login(ctx, email, password, false)
}

// LoginProducer is the producer-specific exchange: a valid password on a
// non-producer account is still rejected.
func (s *AuthService) LoginProducer(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.login(ctx, email, password, true)
}

func (s *AuthService) login(ctx context.Context, email, password string, producerOnly bool) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Accounts are stored with a lowercased email; match it here so the
	// casing typed at login never matters.
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if producerOnly && !user.IsProducer() {
		return "", nil, domain.ErrWrongAudience
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) RegisterClient(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, domain.UserTypeClient, []string{domain.RoleUser})
}

func (s *AuthService) RegisterProducer(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, domain.UserTypeProducer, []string{domain.RoleUser, domain.RoleProducer})
}

func (s *AuthService) register(ctx context.Context, in ports.RegisterInput, userType string, roles []string) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        strings.ToLower(in.Email),
		Name:         in.Name,
		PasswordHash: string(hash),
		UserType:     userType,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Logout revokes the presented token until its natural expiry. An already
// expired or malformed token needs no denylist entry, so logout succeeds
// without touching the store.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ttl := s.remainingTTL(token)
	if ttl <= 0 {
		return nil
	}
	return s.revoker.Revoke(ctx, token, ttl)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":          user.ID,
		"email":        user.Email,
		"tipo_usuario": user.UserType,
		"roles":        user.Roles,
		"exp":          time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) remainingTTL(token string) time.Duration {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return time.Until(exp.Time)
}
