package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ErrPasswordRequired is returned when a new account is created without a password.
var ErrPasswordRequired = errors.New("a password is required for new accounts")

// DriverService manages staff accounts.
type DriverService struct {
	repo *repository.DriverRepository
	auth *AuthService
	log  zerolog.Logger
}

// NewDriverService creates a new DriverService.
func NewDriverService(repo *repository.DriverRepository, auth *AuthService, log zerolog.Logger) *DriverService {
	return &DriverService{repo: repo, auth: auth, log: log.With().Str("component", "driver_service").Logger()}
}

// List returns staff accounts, optionally filtered by role.
func (s *DriverService) List(ctx context.Context, role model.StaffRole) ([]model.Driver, error) {
	return s.repo.List(ctx, role)
}

// Get returns a staff account by ID.
func (s *DriverService) Get(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a staff account.
func (s *DriverService) Create(ctx context.Context, req *model.DriverRequest) (*model.Driver, error) {
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	d := driverFromRequest(req)
	d.PasswordHash = hash
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.log.Info().Str("driver_id", d.ID.String()).Str("role", string(d.Role)).Msg("Staff account created")
	return d, nil
}

// Update replaces a staff account's details. The password changes only when
// a new one is supplied.
func (s *DriverService) Update(ctx context.Context, id uuid.UUID, req *model.DriverRequest) (*model.Driver, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := driverFromRequest(req)
	d.ID = id
	if existing.IsAdmin() && !d.IsAdmin() {
		if err := s.ensureOtherAdmin(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
		// Force re-login with the new password.
		if err := s.auth.Logout(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("driver_id", id.String()).Msg("Failed to reset session")
		}
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a staff account. The last administrator cannot be removed.
func (s *DriverService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsAdmin() {
		if err := s.ensureOtherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.auth.Logout(ctx, id)
}

func (s *DriverService) ensureOtherAdmin(ctx context.Context) error {
	n, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func driverFromRequest(req *model.DriverRequest) *model.Driver {
	role := req.Role
	if role == "" {
		role = model.RoleDriver
	}
	status := req.Status
	if status == "" {
		status = model.StaffStatusActive
	}
	return &model.Driver{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    req.Phone,
		RouteID:  req.RouteID,
		Role:     role,
		Status:   status,
		PhotoURL: req.PhotoURL,
	}
}
