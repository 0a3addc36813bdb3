package mailer

import "context"

// Invitation carries everything the invitation email needs.
type Invitation struct {
	Email    string
	FullName string
	Role     string
}

// InviteMailer sends the invitation email. Sending is best-effort: the
// identity provider has already issued credentials by the time the mailer
// runs, so a failed send is logged and the invite still succeeds.
type InviteMailer interface {
	SendInvitation(ctx context.Context, invitation Invitation) error
}

// NoopMailer is used when no mail provider is configured.
type NoopMailer struct{}

func (NoopMailer) SendInvitation(ctx context.Context, invitation Invitation) error {
	return nil
}
