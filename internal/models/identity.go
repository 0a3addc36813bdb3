package models

// Metadata bag keys used at invitation time. The invite_* namespaced keys are
// the durable source of truth; the plain keys may be overwritten by a later
// sign-in merge performed by the identity provider.
const (
	MetaFullName  = "full_name"
	MetaName      = "name"
	MetaRole      = "role"
	MetaExpertise = "expertise"

	MetaInviteFullName  = "invite_full_name"
	MetaInviteRole      = "invite_role"
	MetaInviteExpertise = "invite_expertise"
	MetaInviteIsAdmin   = "invite_is_admin"
	MetaInviteBio       = "invite_bio"
	MetaInvitedAt       = "invited_at"
)

// Identity is an account record owned by the external identity provider.
// Immutable from this service's perspective except for metadata merges the
// provider performs itself.
type Identity struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"metadata"`
}
