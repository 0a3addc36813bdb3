package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kkadvisory/member-portal-service/internal/events"
	"github.com/kkadvisory/member-portal-service/internal/mailer"
	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

// ProvisioningConfig carries the injected authorization configuration: the
// administrator allow-list and the permitted invitation email domains.
type ProvisioningConfig struct {
	AdminAllowlist      []string
	AllowedEmailDomains []string
}

type provisioningService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	mailer    mailer.InviteMailer

	allowlist      map[string]bool
	allowedDomains []string
}

func NewProvisioningService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	inviteMailer mailer.InviteMailer,
	cfg ProvisioningConfig,
) ProvisioningService {
	allowlist := make(map[string]bool, len(cfg.AdminAllowlist))
	for _, email := range cfg.AdminAllowlist {
		allowlist[strings.ToLower(strings.TrimSpace(email))] = true
	}

	domains := make([]string, 0, len(cfg.AllowedEmailDomains))
	for _, domain := range cfg.AllowedEmailDomains {
		domains = append(domains, strings.ToLower(strings.TrimSpace(domain)))
	}

	return &provisioningService{
		repo:           repo,
		logger:         logger,
		validator:      validator,
		publisher:      publisher,
		mailer:         inviteMailer,
		allowlist:      allowlist,
		allowedDomains: domains,
	}
}

// ===== AUTHORIZATION GUARD =====

// IsAuthorized gates the invitation issuer. The bootstrap exception grants
// access to anyone, including anonymous callers, for as long as the profile
// table is empty; it stops applying the instant one row exists.
func (s *provisioningService) IsAuthorized(ctx context.Context, caller *Caller) bool {
	count, err := s.repo.Profile().Count(ctx)
	if err != nil {
		s.logger.Error("failed to count profiles for bootstrap check", "error", err)
	} else if count == 0 {
		return true
	}

	return s.IsAdmin(ctx, caller)
}

// IsAdmin checks the allow-list and the stored admin flag. A missing profile
// row is treated as "not an admin", never as an error.
func (s *provisioningService) IsAdmin(ctx context.Context, caller *Caller) bool {
	if caller == nil {
		return false
	}

	if s.allowListContains(caller.Email) {
		return true
	}

	profile, err := s.repo.Profile().GetByID(ctx, caller.ID)
	if err != nil {
		return false
	}

	return profile.IsAdmin
}

func (s *provisioningService) allowListContains(email string) bool {
	return s.allowlist[strings.ToLower(strings.TrimSpace(email))]
}

// ===== INVITATION ISSUER =====

// Invite runs the issuer's precondition chain in order, short-circuiting on
// the first failure, then requests credential issuance and eagerly writes a
// provisional profile keyed on the returned identity id.
func (s *provisioningService) Invite(ctx context.Context, req *InviteRequest, caller *Caller) (*InviteResponse, error) {
	// 1. Authorization (bootstrap, allow-list or stored flag)
	if !s.IsAuthorized(ctx, caller) {
		if caller == nil {
			return nil, ErrUnauthorized
		}
		return nil, ErrForbidden
	}

	// 2. Required fields
	if validationErrors := s.validator.Validate(req); validationErrors != nil {
		return nil, validationErrors
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 3. Allowed domain suffix
	if !s.domainAllowed(email) {
		return nil, validator.ValidationErrors{{
			Field:   "Email",
			Message: fmt.Sprintf("domain is not permitted, allowed: %s", strings.Join(s.allowedDomains, ", ")),
			Value:   req.Email,
			Rule:    "allowed_domain",
		}}
	}

	// 4. No existing profile with this email
	exists, err := s.repo.Profile().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing profile: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	// An existing identity means the address was already invited; surface it
	// as the same conflict rather than a provider failure.
	if identityExists, err := s.repo.Identity().ExistsByEmail(ctx, email); err == nil && identityExists {
		return nil, ErrDuplicateEmail
	}

	effectiveIsAdmin := s.allowListContains(email) || req.IsAdmin

	identity, err := s.repo.Identity().InviteByEmail(ctx, email, s.buildInviteMetadata(req, effectiveIsAdmin))
	if err != nil {
		s.logger.Error("credential issuance failed", "email", email, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrIdentityProvider, err)
	}

	response := &InviteResponse{
		Success: true,
		Message: fmt.Sprintf("Invitation sent to %s", email),
	}

	if identity != nil && identity.ID != "" {
		response.UserID = identity.ID

		// Eager provisional profile. Best-effort: the materializer is the
		// fallback, so an upsert failure must not fail the invitation.
		profile := s.provisionalProfile(identity.ID, email, req, effectiveIsAdmin)
		if err := s.repo.Profile().Upsert(ctx, profile); err != nil {
			s.logger.Warn("eager profile upsert failed, materializer will complete it",
				"user_id", identity.ID,
				"email", email,
				"error", err,
			)
		}
	}

	s.publishEvent(ctx, events.EventMemberInvited, &events.MemberInvitedEvent{
		UserID:    response.UserID,
		Email:     email,
		Role:      s.effectiveRole(req.Role, effectiveIsAdmin),
		IsAdmin:   effectiveIsAdmin,
		InvitedBy: callerID(caller),
	})

	if err := s.mailer.SendInvitation(ctx, mailer.Invitation{
		Email:    email,
		FullName: req.FullName,
		Role:     s.effectiveRole(req.Role, effectiveIsAdmin),
	}); err != nil {
		s.logger.Warn("invitation email failed", "email", email, "error", err)
	}

	return response, nil
}

func (s *provisioningService) domainAllowed(email string) bool {
	for _, suffix := range s.allowedDomains {
		if strings.HasSuffix(email, suffix) {
			return true
		}
	}
	return false
}

// ===== PROFILE MATERIALIZER =====

// Materialize creates the profile row on the invitee's first authenticated
// visit. Safe to call repeatedly: an existing row yields ErrProfileExists
// without mutation.
func (s *provisioningService) Materialize(ctx context.Context, req *MaterializeRequest, callerUserID string) (*models.Profile, error) {
	if validationErrors := s.validator.Validate(req); validationErrors != nil {
		return nil, validationErrors
	}

	// A caller may only materialize their own profile.
	if req.UserID != callerUserID {
		return nil, ErrForbidden
	}

	exists, err := s.repo.Profile().ExistsByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing profile: %w", err)
	}
	if exists {
		return nil, ErrProfileExists
	}

	profile := s.resolveProfile(req)

	// The existence pre-check already guarantees idempotency, so an insert
	// failure here is a genuine storage fault and is surfaced.
	if err := s.repo.Profile().Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Lost a first-visit race; the other call created the row.
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.publishEvent(ctx, events.EventProfileMaterialized, &events.ProfileMaterializedEvent{
		UserID:  profile.ID,
		Email:   profile.Email,
		Role:    profile.Role,
		IsAdmin: profile.IsAdmin,
	})

	return profile, nil
}

// ===== HELPER METHODS =====

func (s *provisioningService) effectiveRole(requested string, isAdmin bool) string {
	if isAdmin {
		return models.AdminRoleLabel
	}
	return requested
}

func (s *provisioningService) publishEvent(ctx context.Context, eventType string, data any) {
	err := s.publisher.Publish(ctx, &events.Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		s.logger.Warn("event publish failed", "event_type", eventType, "error", err)
	}
}

func callerID(caller *Caller) string {
	if caller == nil {
		return ""
	}
	return caller.ID
}
