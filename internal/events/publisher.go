package events

import (
	"context"
	"time"
)

// Event types published by the portal.
const (
	EventMemberInvited       = "member.invited"
	EventProfileMaterialized = "profile.materialized"
	EventFeedbackSubmitted   = "feedback.submitted"
)

// Event is the envelope for all portal domain events.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// MemberInvitedEvent is emitted after credential issuance succeeds.
type MemberInvitedEvent struct {
	UserID    string `json:"user_id,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsAdmin   bool   `json:"is_admin"`
	InvitedBy string `json:"invited_by,omitempty"`
}

// ProfileMaterializedEvent is emitted when a profile row is created on a
// member's first authenticated visit.
type ProfileMaterializedEvent struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

// FeedbackSubmittedEvent is emitted when a member files feedback.
type FeedbackSubmittedEvent struct {
	FeedbackID uint   `json:"feedback_id"`
	AuthorID   string `json:"author_id"`
	Subject    string `json:"subject"`
}

// EventPublisher publishes portal domain events. Publishing is best-effort
// everywhere it is used: a failed publish is logged, never surfaced to the
// request.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
