package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Claims extends JWT standard claims with the staff member's role and route.
type Claims struct {
	jwt.RegisteredClaims
	UserID      uuid.UUID       `json:"user_id"`
	Name        string          `json:"name"`
	Role        model.StaffRole `json:"role"`
	RouteID     *uuid.UUID      `json:"route_id,omitempty"` // Drivers only
	Permissions []string        `json:"permissions"`
}

// Actor returns the audit identity carried by the token.
func (c *Claims) Actor() model.Actor {
	return model.Actor{UserID: c.UserID, UserName: c.Name, Role: c.Role, RouteID: c.RouteID}
}

// HasPermission reports whether the token grants perm.
func (c *Claims) HasPermission(perm model.Permission) bool {
	for _, p := range c.Permissions {
		if p == string(perm) {
			return true
		}
	}
	return false
}

// AuthService handles authentication, JWT and session management.
type AuthService struct {
	cfg     *config.Config
	rdb     *redis.Client
	drivers *repository.DriverRepository
	log     zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, drivers *repository.DriverRepository, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:     cfg,
		rdb:     rdb,
		drivers: drivers,
		log:     log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login authenticates a staff member by email and password.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	d, err := s.drivers.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.CheckPassword(d.PasswordHash, req.Password); err != nil {
		return nil, err
	}
	if d.Status == model.StaffStatusInactive {
		return nil, ErrAccountInactive
	}

	return s.issue(ctx, d)
}

// Register creates a driver account and signs it in.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d := &model.Driver{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         model.RoleDriver,
		Status:       model.StaffStatusActive,
	}
	if err := s.drivers.Create(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info().Str("driver_id", d.ID.String()).Msg("Driver registered")

	return s.issue(ctx, d)
}

func (s *AuthService) issue(ctx context.Context, d *model.Driver) (*model.LoginResponse, error) {
	permissions := model.PermissionsFor(d.Role)
	token, jti, err := s.GenerateToken(d, permissions)
	if err != nil {
		return nil, err
	}

	// The latest login owns the session; older tokens stop validating.
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, config.CacheKey.StaffSessionKey(d.ID.String()), jti, s.cfg.JWTExpiry).Err(); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}

	return &model.LoginResponse{Token: token, Driver: *d, Permissions: permissions}, nil
}

// GenerateToken signs a JWT for d and returns it with its ID.
func (s *AuthService) GenerateToken(d *model.Driver, permissions []string) (string, string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   d.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID:      d.ID,
		Name:        d.Name,
		Role:        d.Role,
		Permissions: permissions,
	}
	if d.Role == model.RoleDriver {
		claims.RouteID = d.RouteID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return signed, jti, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateSession checks that the token's JTI is the account's active session.
func (s *AuthService) ValidateSession(ctx context.Context, userID uuid.UUID, jti string) error {
	if s.rdb == nil {
		return nil
	}
	stored, err := s.rdb.Get(ctx, config.CacheKey.StaffSessionKey(userID.String())).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionInvalidated
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return ErrSessionInvalidated
	}
	return nil
}

// Logout ends the account's active session.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, config.CacheKey.StaffSessionKey(userID.String())).Err()
}

// Me returns the current staff member's profile.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*model.LoginResponse, error) {
	d, err := s.drivers.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Driver: *d, Permissions: model.PermissionsFor(d.Role)}, nil
}
