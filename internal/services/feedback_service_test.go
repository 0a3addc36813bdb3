package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/kkadvisory/member-portal-service/internal/events"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

func newFeedbackFixture() (FeedbackService, *fakeRepository, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(logger)
	return NewFeedbackService(repo, logger, validator.New(), publisher), repo, publisher
}

func TestFeedbackService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		service, _, _ := newFeedbackFixture()

		_, err := service.Submit(ctx, &FeedbackCreateRequest{Subject: "s", Body: "b"}, nil)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("missing subject fails validation", func(t *testing.T) {
		service, _, _ := newFeedbackFixture()

		_, err := service.Submit(ctx, &FeedbackCreateRequest{Body: "b"}, &Caller{ID: "u1"})

		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})

	t.Run("submission is attributed and published", func(t *testing.T) {
		service, _, publisher := newFeedbackFixture()

		feedback, err := service.Submit(ctx, &FeedbackCreateRequest{
			Subject: "Broken link",
			Body:    "The handbook quick link 404s.",
		}, &Caller{ID: "u1", Email: "ana@kkadvisory.org"})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if feedback.AuthorID != "u1" {
			t.Errorf("expected author u1, got %q", feedback.AuthorID)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventFeedbackSubmitted {
			t.Errorf("expected event type %q, got %q", events.EventFeedbackSubmitted, published[0].Type)
		}
	})
}

func TestFeedbackService_List(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newFeedbackFixture()

	for i := 0; i < 3; i++ {
		if _, err := service.Submit(ctx, &FeedbackCreateRequest{Subject: "s", Body: "b"}, &Caller{ID: "u1"}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	response, err := service.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if response.Total != 3 {
		t.Errorf("expected total 3, got %d", response.Total)
	}
	if len(response.Feedback) != 2 {
		t.Errorf("expected 2 items on page 1, got %d", len(response.Feedback))
	}
}
