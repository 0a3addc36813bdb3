package services

import (
	"context"
	"errors"

	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type InviteRequest = validator.InviteRequest
type MaterializeRequest = validator.MaterializeRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type QuickLinkCreateRequest = validator.QuickLinkCreateRequest
type QuickLinkUpdateRequest = validator.QuickLinkUpdateRequest
type FeedbackCreateRequest = validator.FeedbackCreateRequest

// Caller identifies the authenticated requester, as established by the auth
// middleware. A nil *Caller means the request is anonymous.
type Caller struct {
	ID    string
	Email string
}

type InviteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

type MaterializeResponse struct {
	Success bool            `json:"success"`
	Profile *models.Profile `json:"profile"`
}

type ProfileListResponse struct {
	Profiles []*models.Profile `json:"profiles"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}

type FeedbackListResponse struct {
	Feedback []*models.Feedback `json:"feedback"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Size     int                `json:"size"`
}

// ===== SERVICE ERRORS =====

var (
	// ErrUnauthorized: no authenticated caller where one is required.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden: authenticated but not permitted, or a claimed user id
	// does not match the caller's identity.
	ErrForbidden = errors.New("not permitted")

	// ErrDuplicateEmail: a profile or identity already exists for the email.
	ErrDuplicateEmail = errors.New("a member with this email already exists")

	// ErrIdentityProvider: the identity provider rejected or failed the call.
	ErrIdentityProvider = errors.New("identity provider request failed")

	// ErrProfileExists: idempotent no-op, the profile was already
	// materialized. Not a true failure.
	ErrProfileExists = errors.New("profile already exists")

	ErrProfileNotFound   = errors.New("profile not found")
	ErrQuickLinkNotFound = errors.New("quick link not found")
	ErrFeedbackNotFound  = errors.New("feedback not found")
)

// ===== SERVICE INTERFACES =====

// ProvisioningService implements the invitation and profile provisioning
// workflow: the authorization guard, the invitation issuer and the profile
// materializer.
type ProvisioningService interface {
	// IsAuthorized decides whether the caller may issue invitations:
	// bootstrap exception (zero profiles), allow-list match, or stored
	// admin flag. Read-only; a missing profile means "no", not an error.
	IsAuthorized(ctx context.Context, caller *Caller) bool

	// IsAdmin reports whether the caller is an administrator (allow-list
	// or stored flag). The bootstrap exception does not apply here.
	IsAdmin(ctx context.Context, caller *Caller) bool

	// Invite validates the candidate, requests credential issuance and
	// eagerly writes a provisional profile when the provider returns an id.
	Invite(ctx context.Context, req *InviteRequest, caller *Caller) (*InviteResponse, error)

	// Materialize creates the profile row on a member's first authenticated
	// visit, reconciling invitation metadata with sign-in metadata.
	// Returns ErrProfileExists when the row is already there.
	Materialize(ctx context.Context, req *MaterializeRequest, callerID string) (*models.Profile, error)
}

type ProfileService interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context, query string, page, size int) (*ProfileListResponse, error)
	Update(ctx context.Context, id string, req *ProfileUpdateRequest, caller *Caller) (*models.Profile, error)
}

type QuickLinkService interface {
	List(ctx context.Context) ([]*models.QuickLink, error)
	Create(ctx context.Context, req *QuickLinkCreateRequest, caller *Caller) (*models.QuickLink, error)
	Update(ctx context.Context, id uint, req *QuickLinkUpdateRequest) (*models.QuickLink, error)
	Delete(ctx context.Context, id uint) error
}

type FeedbackService interface {
	Submit(ctx context.Context, req *FeedbackCreateRequest, caller *Caller) (*models.Feedback, error)
	List(ctx context.Context, page, size int) (*FeedbackListResponse, error)
}

// ExportService produces the admin roster workbook.
type ExportService interface {
	ExportRoster(ctx context.Context) ([]byte, string, error)
}

// ServiceManager wires and owns all service instances.
type ServiceManager interface {
	Provisioning() ProvisioningService
	Profile() ProfileService
	QuickLink() QuickLinkService
	Feedback() FeedbackService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
