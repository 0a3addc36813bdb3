package mailer

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"

	"github.com/kkadvisory/member-portal-service/internal/utils"
)

// ResendMailer sends invitation emails via the Resend API.
type ResendMailer struct {
	client    *resend.Client
	from      string
	portalURL string
	logger    utils.Logger
}

func NewResendMailer(apiKey, from, portalURL string, logger utils.Logger) *ResendMailer {
	return &ResendMailer{
		client:    resend.NewClient(apiKey),
		from:      from,
		portalURL: portalURL,
		logger:    logger,
	}
}

func (m *ResendMailer) SendInvitation(ctx context.Context, invitation Invitation) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{invitation.Email},
		Subject: "You've been invited to the KK Advisory member portal",
		Html:    m.invitationBody(invitation),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	m.logger.Info("invitation email sent",
		"message_id", sent.Id,
		"to", invitation.Email,
	)
	return nil
}

func (m *ResendMailer) invitationBody(invitation Invitation) string {
	name := html.EscapeString(invitation.FullName)
	role := html.EscapeString(invitation.Role)

	return fmt.Sprintf(`<p>Hi %s,</p>
<p>You've been invited to join the KK Advisory member portal as <strong>%s</strong>.</p>
<p>Check your inbox for a sign-in link from our identity provider, then visit
<a href="%s">%s</a> to complete your profile.</p>
<p>— KK Advisory</p>`, name, role, m.portalURL, m.portalURL)
}
