package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/kkadvisory/member-portal-service/internal/events"
	"github.com/kkadvisory/member-portal-service/internal/mailer"
	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

type provisioningFixture struct {
	service   ProvisioningService
	repo      *fakeRepository
	publisher *events.MockEventPublisher
}

func newProvisioningFixture(cfg ProvisioningConfig) *provisioningFixture {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(logger)

	service := NewProvisioningService(repo, logger, validator.New(), publisher, mailer.NoopMailer{}, cfg)

	return &provisioningFixture{
		service:   service,
		repo:      repo,
		publisher: publisher,
	}
}

func defaultConfig() ProvisioningConfig {
	return ProvisioningConfig{
		AdminAllowlist:      []string{"root@kkadvisory.org"},
		AllowedEmailDomains: []string{"@kkadvisory.org"},
	}
}

func validInvite(email string) *InviteRequest {
	return &InviteRequest{
		Email:    email,
		FullName: "Ana Petrova",
		Role:     "Consultant",
	}
}

func TestProvisioningService_IsAuthorized(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstrap grants anonymous access while no profiles exist", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		if !f.service.IsAuthorized(ctx, nil) {
			t.Error("expected anonymous caller to be authorized on an empty portal")
		}
	})

	t.Run("bootstrap stops once a single profile exists", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.profile.byID["u1"] = &models.Profile{ID: "u1", Email: "first@kkadvisory.org"}

		if f.service.IsAuthorized(ctx, nil) {
			t.Error("expected anonymous caller to be denied once a profile exists")
		}
		if f.service.IsAuthorized(ctx, &Caller{ID: "u2", Email: "member@kkadvisory.org"}) {
			t.Error("expected unknown caller to be denied once a profile exists")
		}
	})

	t.Run("allow-listed caller is authorized without a profile row", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.profile.byID["u1"] = &models.Profile{ID: "u1", Email: "first@kkadvisory.org"}

		if !f.service.IsAuthorized(ctx, &Caller{ID: "u9", Email: "Root@KKAdvisory.org"}) {
			t.Error("expected allow-listed caller to be authorized, case-insensitively")
		}
	})

	t.Run("stored admin flag authorizes the caller", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.profile.byID["u1"] = &models.Profile{ID: "u1", Email: "boss@kkadvisory.org", IsAdmin: true}

		if !f.service.IsAuthorized(ctx, &Caller{ID: "u1", Email: "boss@kkadvisory.org"}) {
			t.Error("expected caller with stored admin flag to be authorized")
		}
	})

	t.Run("regular member is not an admin", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.profile.byID["u1"] = &models.Profile{ID: "u1", Email: "member@kkadvisory.org"}

		if f.service.IsAdmin(ctx, &Caller{ID: "u1", Email: "member@kkadvisory.org"}) {
			t.Error("expected regular member not to be an admin")
		}
	})
}

func TestProvisioningService_Invite(t *testing.T) {
	ctx := context.Background()
	admin := &Caller{ID: "admin-1", Email: "root@kkadvisory.org"}

	t.Run("bootstrap invite by anonymous caller succeeds", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		response, err := f.service.Invite(ctx, validInvite("ana@kkadvisory.org"), nil)
		if err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
		if !response.Success {
			t.Error("expected success response")
		}
		if response.UserID == "" {
			t.Error("expected the issued identity id in the response")
		}
	})

	t.Run("anonymous caller is rejected once a profile exists", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.profile.byID["u1"] = &models.Profile{ID: "u1", Email: "first@kkadvisory.org"}

		_, err := f.service.Invite(ctx, validInvite("ana@kkadvisory.org"), nil)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("authenticated non-admin is forbidden", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.profile.byID["u1"] = &models.Profile{ID: "u1", Email: "member@kkadvisory.org"}

		_, err := f.service.Invite(ctx, validInvite("ana@kkadvisory.org"), &Caller{ID: "u1", Email: "member@kkadvisory.org"})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		_, err := f.service.Invite(ctx, &InviteRequest{Email: "not-an-email"}, admin)

		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})

	t.Run("disallowed domain fails validation", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		_, err := f.service.Invite(ctx, validInvite("ana@gmail.com"), admin)

		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			t.Fatalf("expected validation errors, got %v", err)
		}
		if validationErrors[0].Rule != "allowed_domain" {
			t.Errorf("expected allowed_domain rule, got %q", validationErrors[0].Rule)
		}
	})

	t.Run("duplicate profile email is a conflict", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.profile.byID["u1"] = &models.Profile{ID: "u1", Email: "ana@kkadvisory.org"}

		_, err := f.service.Invite(ctx, validInvite("Ana@kkadvisory.org"), admin)
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("existing identity is a conflict", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.identity.byEmail["ana@kkadvisory.org"] = &models.Identity{ID: "x", Email: "ana@kkadvisory.org"}

		_, err := f.service.Invite(ctx, validInvite("ana@kkadvisory.org"), admin)
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("provider failure surfaces as identity provider error", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.identity.inviteErr = fmt.Errorf("upstream down")

		_, err := f.service.Invite(ctx, validInvite("ana@kkadvisory.org"), admin)
		if !errors.Is(err, ErrIdentityProvider) {
			t.Fatalf("expected ErrIdentityProvider, got %v", err)
		}
	})

	t.Run("admin invite forces the administrator role label", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		req := validInvite("ana@kkadvisory.org")
		req.Role = "Consultant"
		req.IsAdmin = true

		response, err := f.service.Invite(ctx, req, admin)
		if err != nil {
			t.Fatalf("Invite failed: %v", err)
		}

		profile, err := f.repo.profile.GetByID(ctx, response.UserID)
		if err != nil {
			t.Fatalf("expected eager provisional profile: %v", err)
		}
		if !profile.IsAdmin {
			t.Error("expected provisional profile to carry the admin flag")
		}
		if profile.Role != models.AdminRoleLabel {
			t.Errorf("expected role %q, got %q", models.AdminRoleLabel, profile.Role)
		}

		if f.repo.identity.lastInviteMetadata[models.MetaInviteIsAdmin] != true {
			t.Error("expected invite_is_admin in the metadata bag")
		}
	})

	t.Run("allow-listed invitee becomes admin without the request flag", func(t *testing.T) {
		f := newProvisioningFixture(ProvisioningConfig{
			AdminAllowlist:      []string{"ana@kkadvisory.org"},
			AllowedEmailDomains: []string{"@kkadvisory.org"},
		})

		response, err := f.service.Invite(ctx, validInvite("ana@kkadvisory.org"), nil)
		if err != nil {
			t.Fatalf("Invite failed: %v", err)
		}

		profile, err := f.repo.profile.GetByID(ctx, response.UserID)
		if err != nil {
			t.Fatalf("expected eager provisional profile: %v", err)
		}
		if !profile.IsAdmin {
			t.Error("expected allow-listed invitee to be admin")
		}
	})

	t.Run("eager upsert failure does not fail the invitation", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.profile.upsertErr = fmt.Errorf("storage hiccup")

		response, err := f.service.Invite(ctx, validInvite("ana@kkadvisory.org"), nil)
		if err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
		if !response.Success {
			t.Error("expected success despite eager upsert failure")
		}
	})

	t.Run("metadata bag carries both plain and namespaced keys", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		req := validInvite("ana@kkadvisory.org")
		req.Expertise = []string{"tax", "audit"}

		if _, err := f.service.Invite(ctx, req, nil); err != nil {
			t.Fatalf("Invite failed: %v", err)
		}

		meta := f.repo.identity.lastInviteMetadata
		if meta[models.MetaFullName] != "Ana Petrova" {
			t.Errorf("expected plain full_name key, got %v", meta[models.MetaFullName])
		}
		if meta[models.MetaInviteFullName] != "Ana Petrova" {
			t.Errorf("expected namespaced invite_full_name key, got %v", meta[models.MetaInviteFullName])
		}
		if meta[models.MetaInvitedAt] == "" {
			t.Error("expected invited_at marker")
		}
	})

	t.Run("successful invite publishes member.invited", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		if _, err := f.service.Invite(ctx, validInvite("ana@kkadvisory.org"), nil); err != nil {
			t.Fatalf("Invite failed: %v", err)
		}

		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventMemberInvited {
			t.Errorf("expected event type %q, got %q", events.EventMemberInvited, published[0].Type)
		}
	})
}

func TestProvisioningService_Materialize(t *testing.T) {
	ctx := context.Background()

	materializeRequest := func(userID, email string, meta map[string]any) *MaterializeRequest {
		return &MaterializeRequest{
			UserID:       userID,
			Email:        email,
			UserMetadata: meta,
		}
	}

	t.Run("claimed user id must match the caller", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		_, err := f.service.Materialize(ctx, materializeRequest("u1", "ana@kkadvisory.org", nil), "someone-else")
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("existing profile yields ErrProfileExists without mutation", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())
		f.repo.profile.byID["u1"] = &models.Profile{ID: "u1", Email: "ana@kkadvisory.org", FullName: "Original"}

		_, err := f.service.Materialize(ctx, materializeRequest("u1", "ana@kkadvisory.org", nil), "u1")
		if !errors.Is(err, ErrProfileExists) {
			t.Fatalf("expected ErrProfileExists, got %v", err)
		}

		profile, _ := f.repo.profile.GetByID(ctx, "u1")
		if profile.FullName != "Original" {
			t.Errorf("expected existing row untouched, got %q", profile.FullName)
		}
	})

	t.Run("invitation metadata takes precedence over sign-in metadata", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		meta := map[string]any{
			models.MetaFullName:        "OAuth Name",
			models.MetaInviteFullName:  "Ana Petrova",
			models.MetaInviteRole:      "Consultant",
			models.MetaInviteExpertise: []any{"tax", "audit"},
			models.MetaInvitedAt:       "2026-08-01T00:00:00Z",
		}

		profile, err := f.service.Materialize(ctx, materializeRequest("u1", "ana@kkadvisory.org", meta), "u1")
		if err != nil {
			t.Fatalf("Materialize failed: %v", err)
		}
		if profile.FullName != "Ana Petrova" {
			t.Errorf("expected invite_full_name to win, got %q", profile.FullName)
		}
		if profile.Role != "Consultant" {
			t.Errorf("expected invite_role to win, got %q", profile.Role)
		}
		if len(profile.Expertise) != 2 || profile.Expertise[0] != "tax" {
			t.Errorf("expected invite expertise carried over, got %v", profile.Expertise)
		}
	})

	t.Run("plain metadata is the fallback for uninvited sign-ups", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		meta := map[string]any{models.MetaName: "Walk In"}

		profile, err := f.service.Materialize(ctx, materializeRequest("u1", "walkin@kkadvisory.org", meta), "u1")
		if err != nil {
			t.Fatalf("Materialize failed: %v", err)
		}
		if profile.FullName != "Walk In" {
			t.Errorf("expected plain name fallback, got %q", profile.FullName)
		}
		if profile.Role != models.DefaultRoleLabel {
			t.Errorf("expected default role %q, got %q", models.DefaultRoleLabel, profile.Role)
		}
		if len(profile.Expertise) != 0 {
			t.Errorf("expected no expertise without invitation data, got %v", profile.Expertise)
		}
	})

	t.Run("empty metadata falls back to the email local part", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		profile, err := f.service.Materialize(ctx, materializeRequest("u1", "ana@kkadvisory.org", nil), "u1")
		if err != nil {
			t.Fatalf("Materialize failed: %v", err)
		}
		if profile.FullName != "ana" {
			t.Errorf("expected local-part fallback, got %q", profile.FullName)
		}
	})

	t.Run("allow-listed email is promoted to administrator", func(t *testing.T) {
		f := newProvisioningFixture(ProvisioningConfig{
			AdminAllowlist:      []string{"ana@kkadvisory.org"},
			AllowedEmailDomains: []string{"@kkadvisory.org"},
		})

		profile, err := f.service.Materialize(ctx, materializeRequest("u1", "ana@kkadvisory.org", nil), "u1")
		if err != nil {
			t.Fatalf("Materialize failed: %v", err)
		}
		if !profile.IsAdmin {
			t.Error("expected allow-listed email to be admin")
		}
		if profile.Role != models.AdminRoleLabel {
			t.Errorf("expected role %q, got %q", models.AdminRoleLabel, profile.Role)
		}
	})

	t.Run("first-visit race resolves to ErrProfileExists", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		// A real race surfaces as a duplicate key from the database.
		f.repo.profile.createErr = fmt.Errorf("insert: %w", repositories.ErrDuplicateKey)

		_, err := f.service.Materialize(ctx, materializeRequest("u1", "ana@kkadvisory.org", nil), "u1")
		if !errors.Is(err, ErrProfileExists) {
			t.Fatalf("expected ErrProfileExists on duplicate-key race, got %v", err)
		}
	})

	t.Run("successful materialization publishes profile.materialized", func(t *testing.T) {
		f := newProvisioningFixture(defaultConfig())

		if _, err := f.service.Materialize(ctx, materializeRequest("u1", "ana@kkadvisory.org", nil), "u1"); err != nil {
			t.Fatalf("Materialize failed: %v", err)
		}

		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventProfileMaterialized {
			t.Errorf("expected event type %q, got %q", events.EventProfileMaterialized, published[0].Type)
		}
	})
}
