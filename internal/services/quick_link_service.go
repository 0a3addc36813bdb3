package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

type quickLinkService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuickLinkService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
) QuickLinkService {
	return &quickLinkService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *quickLinkService) List(ctx context.Context) ([]*models.QuickLink, error) {
	links, err := s.repo.QuickLink().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quick links: %w", err)
	}
	return links, nil
}

func (s *quickLinkService) Create(ctx context.Context, req *QuickLinkCreateRequest, caller *Caller) (*models.QuickLink, error) {
	if validationErrors := s.validator.Validate(req); validationErrors != nil {
		return nil, validationErrors
	}

	link := &models.QuickLink{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		CreatedBy:   callerID(caller),
	}

	if err := s.repo.QuickLink().Create(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to create quick link: %w", err)
	}

	return link, nil
}

func (s *quickLinkService) Update(ctx context.Context, id uint, req *QuickLinkUpdateRequest) (*models.QuickLink, error) {
	if validationErrors := s.validator.Validate(req); validationErrors != nil {
		return nil, validationErrors
	}

	link, err := s.repo.QuickLink().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuickLinkNotFound
		}
		return nil, fmt.Errorf("failed to get quick link: %w", err)
	}

	if req.Title != nil {
		link.Title = *req.Title
	}
	if req.URL != nil {
		link.URL = *req.URL
	}
	if req.Description != nil {
		link.Description = req.Description
	}
	if req.SortOrder != nil {
		link.SortOrder = *req.SortOrder
	}

	if err := s.repo.QuickLink().Update(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to update quick link: %w", err)
	}

	return link, nil
}

func (s *quickLinkService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.QuickLink().Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrQuickLinkNotFound
		}
		return fmt.Errorf("failed to delete quick link: %w", err)
	}
	return nil
}
