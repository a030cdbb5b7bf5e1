// Package mailer sends transactional email through Resend.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/lshigami/Kindred/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

var ErrNotConfigured = errors.New("email is not configured")

var inviteTemplate = template.Must(template.New("invite").Parse(`<!doctype html>
<html><body style="font-family: Georgia, serif; color: #2d2a32;">
<p>Hi,</p>
<p>{{.InviterName}} has invited you to take the Kindred relationship assessment together.
Your access is already paid for.</p>
<p><a href="{{.Link}}" style="background:#b4496b;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none;">Accept the invitation</a></p>
<p style="font-size: 12px; color: #777;">This link expires on {{.Expires}}.</p>
</body></html>`))

type PartnerInvite struct {
	To          string
	InviterName string
	Link        string
	Expires     string
}

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(cfg *config.Config) *ResendMailer {
	m := &ResendMailer{from: cfg.Email.From}
	if cfg.Email.ResendApiKey == "" {
		log.Warn().Msg("RESEND_API_KEY is not set. Invite emails will not be sent.")
		return m
	}
	m.client = resend.NewClient(cfg.Email.ResendApiKey)
	return m
}

func (m *ResendMailer) SendPartnerInvite(ctx context.Context, invite PartnerInvite) error {
	if m.client == nil {
		return ErrNotConfigured
	}

	var body bytes.Buffer
	if err := inviteTemplate.Execute(&body, invite); err != nil {
		return fmt.Errorf("render invite email: %w", err)
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{invite.To},
		Subject: fmt.Sprintf("%s invited you to Kindred", invite.InviterName),
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("send invite email: %w", err)
	}
	log.Info().Str("emailID", sent.Id).Msg("Partner invite email sent")
	return nil
}
