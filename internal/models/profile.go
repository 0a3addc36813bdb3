package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// AdminRoleLabel is the role shown for any profile with the admin flag,
	// regardless of the role requested at invitation time.
	AdminRoleLabel = "Administrator"

	// DefaultRoleLabel is the fallback when no role can be resolved from
	// invitation or sign-in metadata.
	DefaultRoleLabel = "Team Member"
)

// Profile is the portal's local record for a member. Exactly one row exists
// per identity id; the id column is the upsert key.
type Profile struct {
	ID       string `json:"id" gorm:"primaryKey;size:255"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FullName string `json:"full_name" gorm:"not null;size:100"`
	Role     string `json:"role" gorm:"not null;size:100"`
	IsAdmin  bool   `json:"is_admin" gorm:"default:false"`

	Expertise datatypes.JSONSlice[string] `json:"expertise"`
	AvatarURL *string                     `json:"avatar_url" gorm:"size:500"`
	Bio       *string                     `json:"bio" gorm:"size:2000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// DisplayRole returns the role label as shown in the UI, forcing the
// administrator label when the admin flag is set.
func (p *Profile) DisplayRole() string {
	if p.IsAdmin {
		return AdminRoleLabel
	}
	return p.Role
}
