package repositories

import (
	"context"
	"errors"

	"github.com/kkadvisory/member-portal-service/internal/models"
)

// Sentinel errors shared by repository implementations.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// ===== SHARED FILTER STRUCTS =====

type ProfileFilters struct {
	Query   string `json:"query"` // Search query for name or email
	IsAdmin *bool  `json:"is_admin"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}

type FeedbackFilters struct {
	AuthorID *string `json:"author_id"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// ProfileRepository owns the portal's member rows. The id column is the
// identity provider's user id and doubles as the upsert key.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	// Upsert writes the row, overwriting an existing row with the same id
	// (last write wins).
	Upsert(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error

	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context, filters ProfileFilters) ([]*models.Profile, int64, error)

	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type QuickLinkRepository interface {
	Create(ctx context.Context, link *models.QuickLink) error
	Update(ctx context.Context, link *models.QuickLink) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.QuickLink, error)
	List(ctx context.Context) ([]*models.QuickLink, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByID(ctx context.Context, id uint) (*models.Feedback, error)
	List(ctx context.Context, filters FeedbackFilters) ([]*models.Feedback, int64, error)
}

// IdentityRepository talks to the external identity provider. The portal can
// look identities up and request credential issuance; everything else about
// sessions belongs to the provider.
type IdentityRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// InviteByEmail requests credential issuance for the address, attaching
	// the metadata bag to the new identity. The returned identity id may be
	// empty when the provider defers id assignment.
	InviteByEmail(ctx context.Context, email string, metadata map[string]any) (*models.Identity, error)
}
