package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/kkadvisory/member-portal-service/internal/validator"
)

func newQuickLinkFixture() (QuickLinkService, *fakeRepository) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newFakeRepository()
	return NewQuickLinkService(repo, logger, validator.New()), repo
}

func TestQuickLinkService_CRUD(t *testing.T) {
	ctx := context.Background()
	service, _ := newQuickLinkFixture()
	caller := &Caller{ID: "admin-1", Email: "root@kkadvisory.org"}

	link, err := service.Create(ctx, &QuickLinkCreateRequest{
		Title: "Handbook",
		URL:   "https://handbook.kkadvisory.org",
	}, caller)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if link.ID == 0 {
		t.Error("expected assigned id")
	}
	if link.CreatedBy != "admin-1" {
		t.Errorf("expected creator recorded, got %q", link.CreatedBy)
	}

	newTitle := "Employee Handbook"
	updated, err := service.Update(ctx, link.ID, &QuickLinkUpdateRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("expected %q, got %q", newTitle, updated.Title)
	}

	links, err := service.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}

	if err := service.Delete(ctx, link.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestQuickLinkService_NotFound(t *testing.T) {
	ctx := context.Background()
	service, _ := newQuickLinkFixture()

	title := "x"
	if _, err := service.Update(ctx, 42, &QuickLinkUpdateRequest{Title: &title}); !errors.Is(err, ErrQuickLinkNotFound) {
		t.Errorf("expected ErrQuickLinkNotFound on update, got %v", err)
	}
	if err := service.Delete(ctx, 42); !errors.Is(err, ErrQuickLinkNotFound) {
		t.Errorf("expected ErrQuickLinkNotFound on delete, got %v", err)
	}
}

func TestQuickLinkService_Validation(t *testing.T) {
	ctx := context.Background()
	service, _ := newQuickLinkFixture()

	_, err := service.Create(ctx, &QuickLinkCreateRequest{Title: "No URL", URL: "not-a-url"}, nil)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		t.Fatalf("expected validation errors, got %v", err)
	}
}
