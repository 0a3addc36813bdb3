package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
	"github.com/kkadvisory/member-portal-service/internal/validator"
	"gorm.io/datatypes"
)

type profileService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	authz     ProvisioningService
}

func NewProfileService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	authz ProvisioningService,
) ProfileService {
	return &profileService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		authz:     authz,
	}
}

func (s *profileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context, query string, page, size int) (*ProfileListResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	profiles, total, err := s.repo.Profile().List(ctx, repositories.ProfileFilters{
		Query:  query,
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return &ProfileListResponse{
		Profiles: profiles,
		Total:    total,
		Page:     page,
		Size:     size,
	}, nil
}

// Update applies directory edits. Members may edit their own profile;
// administrators may edit anyone's. The admin flag and role label are owned
// by the provisioning workflow and are not editable here.
func (s *profileService) Update(ctx context.Context, id string, req *ProfileUpdateRequest, caller *Caller) (*models.Profile, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if caller.ID != id && !s.authz.IsAdmin(ctx, caller) {
		return nil, ErrForbidden
	}

	if validationErrors := s.validator.Validate(req); validationErrors != nil {
		return nil, validationErrors
	}

	profile, err := s.repo.Profile().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Role != nil && !profile.IsAdmin {
		profile.Role = *req.Role
	}
	if req.Expertise != nil {
		profile.Expertise = datatypes.NewJSONSlice(req.Expertise)
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}

	if err := s.repo.Profile().Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}
