// Package payment wraps Stripe Checkout and webhook verification.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/lshigami/Kindred/config"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

const EventCheckoutCompleted = "checkout.session.completed"

// ErrNotConfigured is returned when no Stripe secret key is set.
var ErrNotConfigured = errors.New("stripe is not configured")

// ErrBadSignature is returned when a webhook payload fails verification.
var ErrBadSignature = errors.New("webhook signature verification failed")

type CheckoutRequest struct {
	ProfileID  uint
	Email      string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is the part of a Stripe event the application acts on.
type WebhookEvent struct {
	ID         string
	Type       string
	ProfileID  *uint
	CustomerID string
	Paid       bool
}

type StripeClient struct {
	priceID       string
	webhookSecret string
	sessions      *session.Client
}

func NewStripeClient(cfg *config.Config) *StripeClient {
	c := &StripeClient{
		priceID:       cfg.Stripe.PriceID,
		webhookSecret: cfg.Stripe.WebhookSecret,
	}
	if cfg.Stripe.SecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY is not set. Checkout will be unavailable.")
		return c
	}
	c.sessions = &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.Stripe.SecretKey}
	return c
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if c.sessions == nil || c.priceID == "" {
		return nil, ErrNotConfigured
	}
	profileID := strconv.FormatUint(uint64(req.ProfileID), 10)

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(c.priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(profileID),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.AddMetadata("profile_id", profileID)
	params.Context = ctx

	s, err := c.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event.
func (c *StripeClient) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if c.webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return decodeEvent(event)
}

func decodeEvent(event stripe.Event) (*WebhookEvent, error) {
	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type != EventCheckoutCompleted || event.Data == nil {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out.Paid = cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
		cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired
	if cs.Customer != nil {
		out.CustomerID = cs.Customer.ID
	}

	ref := cs.ClientReferenceID
	if ref == "" {
		ref = cs.Metadata["profile_id"]
	}
	if ref != "" {
		id, err := strconv.ParseUint(ref, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid profile reference %q: %w", ref, err)
		}
		pid := uint(id)
		out.ProfileID = &pid
	}
	return out, nil
}
