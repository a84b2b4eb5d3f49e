package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Odiway/battrack/internal/config"
	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const revokedTokenPrefix = "auth:revoked:"

// AuthService issues and revokes session tokens. Token lifetime defaults to
// one factory shift (8h).
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		rdb:      rdb,
		cfg:      cfg,
	}
}

// TokenResult is a successful login response.
type TokenResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrValidation)
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: account is disabled", ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrValidation)
	}

	expire := s.cfg.JWT.AccessTokenExpire
	if expire == 0 {
		expire = 8 * time.Hour
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"uid":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(expire).Unix(),
		"jti":   uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResult{
		AccessToken: signed,
		ExpiresIn:   int64(expire.Seconds()),
		User:        user,
	}, nil
}

// Logout revokes a token by JTI until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedTokenPrefix+jti, "1", ttl).Err()
}

// IsTokenRevoked reports whether a JTI was revoked by Logout.
func (s *AuthService) IsTokenRevoked(ctx context.Context, jti string) bool {
	if s.rdb == nil || jti == "" {
		return false
	}
	exists, err := s.rdb.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		// Fail open: a Redis outage must not lock everyone out.
		return false
	}
	return exists > 0
}
