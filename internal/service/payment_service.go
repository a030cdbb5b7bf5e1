package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Kindred/config"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/payment"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PaymentProvider is the checkout/webhook side of the payments provider.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error)
}

type PaymentService interface {
	CreateCheckout(ctx context.Context, profileID uint) (*dto.CheckoutResponseDTO, error)
	HandleWebhook(payload []byte, signature string) error
}

type paymentService struct {
	profileRepo repository.ProfileRepository
	provider    PaymentProvider
	baseURL     string
	db          *gorm.DB
	now         func() time.Time
}

func NewPaymentService(profileRepo repository.ProfileRepository, provider PaymentProvider, cfg *config.Config, db *gorm.DB) PaymentService {
	return &paymentService{
		profileRepo: profileRepo,
		provider:    provider,
		baseURL:     cfg.BaseURL,
		db:          db,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, profileID uint) (*dto.CheckoutResponseDTO, error) {
	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		return nil, lookupErr("profile", err)
	}
	if profile.HasPaid {
		return nil, fmt.Errorf("profile %d has already paid: %w", profileID, ErrConflict)
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		ProfileID:  profile.ID,
		Email:      profile.Email,
		SuccessURL: s.baseURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.baseURL + "/payment/cancelled",
	})
	if err != nil {
		log.Error().Err(err).Uint("profileID", profileID).Msg("CreateCheckout: provider error")
		if errors.Is(err, payment.ErrNotConfigured) {
			return nil, fmt.Errorf("checkout: %w", ErrUnavailable)
		}
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &dto.CheckoutResponseDTO{SessionID: session.ID, URL: session.URL}, nil
}

// HandleWebhook applies a verified provider event. Replayed events and
// profiles that already paid are no-ops.
func (s *paymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		log.Warn().Err(err).Msg("HandleWebhook: rejected payload")
		if errors.Is(err, payment.ErrNotConfigured) {
			return fmt.Errorf("webhook: %w", ErrUnavailable)
		}
		return fmt.Errorf("%v: %w", err, ErrInvalid)
	}

	if event.Type != payment.EventCheckoutCompleted {
		log.Debug().Str("eventID", event.ID).Str("type", event.Type).Msg("HandleWebhook: ignoring event type")
		return nil
	}
	if event.ProfileID == nil {
		log.Warn().Str("eventID", event.ID).Msg("HandleWebhook: checkout session without profile reference")
		return nil
	}
	if !event.Paid {
		log.Info().Str("eventID", event.ID).Uint("profileID", *event.ProfileID).Msg("HandleWebhook: checkout completed but not paid yet")
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		fresh, err := repository.NewPaymentEventRepository(tx).Record(&model.PaymentEvent{
			StripeEventID: event.ID,
			Type:          event.Type,
			ProfileID:     event.ProfileID,
		})
		if err != nil {
			return fmt.Errorf("record payment event: %w", err)
		}
		if !fresh {
			log.Info().Str("eventID", event.ID).Msg("HandleWebhook: duplicate event")
			return nil
		}

		profiles := repository.NewProfileRepository(tx)
		profile, err := profiles.FindByID(*event.ProfileID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Retrying cannot help; acknowledge so the provider stops resending.
			log.Warn().Str("eventID", event.ID).Uint("profileID", *event.ProfileID).Msg("HandleWebhook: profile not found, event acknowledged")
			return nil
		}
		if err != nil {
			return lookupErr("profile", err)
		}
		if profile.HasPaid {
			return nil
		}

		now := s.now()
		profile.HasPaid = true
		profile.PaidAt = &now
		if event.CustomerID != "" {
			customer := event.CustomerID
			profile.StripeCustomerID = &customer
		}
		if err := profiles.Update(profile); err != nil {
			return fmt.Errorf("mark profile paid: %w", err)
		}
		log.Info().Uint("profileID", profile.ID).Str("eventID", event.ID).Msg("Payment recorded")
		return nil
	})
}
