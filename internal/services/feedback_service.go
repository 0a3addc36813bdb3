package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kkadvisory/member-portal-service/internal/events"
	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

type feedbackService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewFeedbackService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
) FeedbackService {
	return &feedbackService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *feedbackService) Submit(ctx context.Context, req *FeedbackCreateRequest, caller *Caller) (*models.Feedback, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}

	if validationErrors := s.validator.Validate(req); validationErrors != nil {
		return nil, validationErrors
	}

	feedback := &models.Feedback{
		AuthorID: caller.ID,
		Subject:  req.Subject,
		Body:     req.Body,
	}

	if err := s.repo.Feedback().Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	err := s.publisher.Publish(ctx, &events.Event{
		Type:       events.EventFeedbackSubmitted,
		OccurredAt: time.Now().UTC(),
		Data: &events.FeedbackSubmittedEvent{
			FeedbackID: feedback.ID,
			AuthorID:   feedback.AuthorID,
			Subject:    feedback.Subject,
		},
	})
	if err != nil {
		s.logger.Warn("event publish failed", "event_type", events.EventFeedbackSubmitted, "error", err)
	}

	return feedback, nil
}

func (s *feedbackService) List(ctx context.Context, page, size int) (*FeedbackListResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	items, total, err := s.repo.Feedback().List(ctx, repositories.FeedbackFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	return &FeedbackListResponse{
		Feedback: items,
		Total:    total,
		Page:     page,
		Size:     size,
	}, nil
}
