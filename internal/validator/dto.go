package validator

// InviteRequest is the payload for issuing an invitation.
type InviteRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	FullName  string   `json:"fullName" validate:"required,display_name"`
	Role      string   `json:"role" validate:"required,max=100"`
	Expertise []string `json:"expertise" validate:"omitempty,dive,max=100"`
	IsAdmin   bool     `json:"isAdmin"`
}

// MaterializeRequest is the payload for first-visit profile creation. The
// metadata bag is the identity provider's view of the user, carrying both the
// invite_* namespaced keys and the plain keys a sign-in merge may overwrite.
type MaterializeRequest struct {
	UserID       string         `json:"userId" validate:"required"`
	Email        string         `json:"email" validate:"required,email"`
	UserMetadata map[string]any `json:"userMetadata"`
	Bio          *string        `json:"bio" validate:"omitempty,max=2000"`
	AvatarURL    *string        `json:"avatarUrl" validate:"omitempty,portal_url"`
}

// ProfileUpdateRequest is the payload for directory profile edits.
type ProfileUpdateRequest struct {
	FullName  *string  `json:"full_name" validate:"omitempty,display_name"`
	Role      *string  `json:"role" validate:"omitempty,max=100"`
	Expertise []string `json:"expertise" validate:"omitempty,dive,max=100"`
	AvatarURL *string  `json:"avatar_url" validate:"omitempty,portal_url"`
	Bio       *string  `json:"bio" validate:"omitempty,max=2000"`
}

// QuickLinkCreateRequest is the payload for creating a dashboard link.
type QuickLinkCreateRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	URL         string  `json:"url" validate:"required,portal_url"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	SortOrder   int     `json:"sort_order"`
}

// QuickLinkUpdateRequest is the payload for editing a dashboard link.
type QuickLinkUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	URL         *string `json:"url" validate:"omitempty,portal_url"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
}

// FeedbackCreateRequest is the payload for submitting feedback.
type FeedbackCreateRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required,max=4000"`
}
