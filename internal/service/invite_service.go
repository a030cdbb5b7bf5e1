package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Kindred/config"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/mailer"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const inviteTTL = 7 * 24 * time.Hour

type Mailer interface {
	SendPartnerInvite(ctx context.Context, invite mailer.PartnerInvite) error
}

type InviteService interface {
	CreateInvite(ctx context.Context, assessmentID, inviterID uint, req dto.CreateInviteRequest) (*dto.InviteResponseDTO, error)
	GetInvite(token string) (*dto.InviteResponseDTO, error)
	AcceptInvite(token string, inviteeID uint) (*dto.AcceptInviteResponseDTO, error)
}

type inviteService struct {
	inviteRepo     repository.InviteRepository
	assessmentRepo repository.AssessmentRepository
	profileRepo    repository.ProfileRepository
	mailer         Mailer
	baseURL        string
	db             *gorm.DB
	now            func() time.Time
	newToken       func() string
}

func NewInviteService(
	inviteRepo repository.InviteRepository,
	assessmentRepo repository.AssessmentRepository,
	profileRepo repository.ProfileRepository,
	mailer Mailer,
	cfg *config.Config,
	db *gorm.DB,
) InviteService {
	return &inviteService{
		inviteRepo:     inviteRepo,
		assessmentRepo: assessmentRepo,
		profileRepo:    profileRepo,
		mailer:         mailer,
		baseURL:        cfg.BaseURL,
		db:             db,
		now:            func() time.Time { return time.Now().UTC() },
		newToken:       func() string { return uuid.NewString() },
	}
}

func (s *inviteService) CreateInvite(ctx context.Context, assessmentID, inviterID uint, req dto.CreateInviteRequest) (*dto.InviteResponseDTO, error) {
	assessment, err := s.assessmentRepo.FindByID(assessmentID)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("assessment %d", assessmentID), err)
	}
	if assessment.Partner1ID != inviterID {
		return nil, fmt.Errorf("only the assessment owner can invite a partner: %w", ErrForbidden)
	}
	if assessment.Partner2ID != nil {
		return nil, fmt.Errorf("assessment %d already has a partner: %w", assessmentID, ErrConflict)
	}

	inviter, err := s.profileRepo.FindByID(inviterID)
	if err != nil {
		return nil, lookupErr("profile", err)
	}
	if !inviter.HasPaid {
		return nil, fmt.Errorf("inviting a partner requires a completed purchase: %w", ErrPaymentRequired)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("partner email is required: %w", ErrInvalid)
	}
	if email == inviter.Email {
		return nil, fmt.Errorf("you cannot invite yourself: %w", ErrInvalid)
	}

	invite, err := s.openInvite(assessmentID, email)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		invite = &model.PartnerInvite{
			Token:        s.newToken(),
			InviterID:    inviterID,
			AssessmentID: assessmentID,
			Email:        email,
			ExpiresAt:    s.now().Add(inviteTTL),
		}
		if err := s.inviteRepo.Create(invite); err != nil {
			log.Error().Err(err).Uint("assessmentID", assessmentID).Msg("CreateInvite: database error")
			return nil, fmt.Errorf("create invite: %w", err)
		}
	}

	resp := s.toInviteDTO(invite, inviterName(inviter))
	err = s.mailer.SendPartnerInvite(ctx, mailer.PartnerInvite{
		To:          invite.Email,
		InviterName: resp.InviterName,
		Link:        resp.InviteURL,
		Expires:     invite.ExpiresAt.Format("January 2, 2006"),
	})
	if err != nil {
		// The link is still returned so it can be shared by hand.
		log.Warn().Err(err).Uint("inviteID", invite.ID).Msg("CreateInvite: email not sent")
	}
	return resp, nil
}

// openInvite returns a live invite already sent to email, so asking again
// re-sends the same link.
func (s *inviteService) openInvite(assessmentID uint, email string) (*model.PartnerInvite, error) {
	open, err := s.inviteRepo.FindOpenByAssessment(assessmentID)
	if err != nil {
		return nil, fmt.Errorf("load open invites: %w", err)
	}
	now := s.now()
	for i := range open {
		if open[i].Email == email && !open[i].Expired(now) {
			return &open[i], nil
		}
	}
	return nil, nil
}

func (s *inviteService) GetInvite(token string) (*dto.InviteResponseDTO, error) {
	invite, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		return nil, lookupErr("invite", err)
	}
	if invite.UsedAt != nil {
		return nil, fmt.Errorf("this invite has already been used: %w", ErrExpired)
	}
	if invite.Expired(s.now()) {
		return nil, fmt.Errorf("this invite has expired: %w", ErrExpired)
	}

	name := ""
	if inviter, err := s.profileRepo.FindByID(invite.InviterID); err == nil {
		name = inviterName(inviter)
	}
	return s.toInviteDTO(invite, name), nil
}

// AcceptInvite joins the invitee to the inviter's assessment and passes on
// the inviter's paid status. Every read and write happens in one
// transaction, so a failure at any step leaves nothing half-applied.
// Accepting the same invite twice as the same invitee succeeds both times.
func (s *inviteService) AcceptInvite(token string, inviteeID uint) (*dto.AcceptInviteResponseDTO, error) {
	var resp dto.AcceptInviteResponseDTO

	err := s.db.Transaction(func(tx *gorm.DB) error {
		invites := repository.NewInviteRepository(tx)
		profiles := repository.NewProfileRepository(tx)
		assessments := repository.NewAssessmentRepository(tx)

		invite, err := invites.FindByToken(token)
		if err != nil {
			return lookupErr("invite", err)
		}
		resp.AssessmentID = invite.AssessmentID

		if invite.UsedAt != nil {
			if invite.UsedByID != nil && *invite.UsedByID == inviteeID {
				return s.loadProfileInto(profiles, inviteeID, &resp.Profile)
			}
			return fmt.Errorf("this invite has already been used: %w", ErrExpired)
		}
		now := s.now()
		if invite.Expired(now) {
			return fmt.Errorf("this invite has expired: %w", ErrExpired)
		}
		if invite.InviterID == inviteeID {
			return fmt.Errorf("you cannot accept your own invite: %w", ErrInvalid)
		}

		inviter, err := profiles.FindByID(invite.InviterID)
		if err != nil {
			return lookupErr("inviter profile", err)
		}
		if !inviter.HasPaid {
			return fmt.Errorf("the inviting partner has not completed payment: %w", ErrPaymentRequired)
		}
		invitee, err := profiles.FindByID(inviteeID)
		if err != nil {
			return lookupErr("profile", err)
		}

		assessment, err := assessments.FindByID(invite.AssessmentID)
		if err != nil {
			return lookupErr("assessment", err)
		}
		if assessment.Partner2ID != nil && *assessment.Partner2ID != inviteeID {
			return fmt.Errorf("assessment %d already has a partner: %w", assessment.ID, ErrConflict)
		}

		claimed := tx.Model(&model.PartnerInvite{}).
			Where("id = ? AND used_at IS NULL", invite.ID).
			Updates(map[string]interface{}{"used_at": now, "used_by_id": inviteeID})
		if claimed.Error != nil {
			return fmt.Errorf("claim invite: %w", claimed.Error)
		}
		if claimed.RowsAffected != 1 {
			return fmt.Errorf("this invite has already been used: %w", ErrExpired)
		}

		if err := attachPartner(tx, assessment.ID, inviteeID); err != nil {
			return err
		}

		paidAt := now
		if invitee.PaidAt != nil {
			paidAt = *invitee.PaidAt
		}
		err = tx.Model(&model.Profile{}).Where("id = ?", invitee.ID).
			Updates(map[string]interface{}{"has_paid": true, "paid_at": paidAt}).Error
		if err != nil {
			return fmt.Errorf("update invitee: %w", err)
		}
		if err := linkPartner(tx, invitee.ID, invitee.PartnerID, inviter.ID); err != nil {
			return err
		}
		if err := linkPartner(tx, inviter.ID, inviter.PartnerID, invitee.ID); err != nil {
			return err
		}

		return s.loadProfileInto(profiles, inviteeID, &resp.Profile)
	})
	if err != nil {
		level := log.Warn()
		if !isClientError(err) {
			level = log.Error()
		}
		level.Err(err).Uint("profileID", inviteeID).Msg("AcceptInvite: rolled back")
		return nil, err
	}

	log.Info().Uint("profileID", inviteeID).Uint("assessmentID", resp.AssessmentID).Msg("Invite accepted, payment inherited")
	return &resp, nil
}

// attachPartner fills the assessment's second seat only while it is still
// free (or already held by the same invitee).
func attachPartner(tx *gorm.DB, assessmentID, inviteeID uint) error {
	res := tx.Model(&model.Assessment{}).
		Where("id = ? AND (partner2_id IS NULL OR partner2_id = ?)", assessmentID, inviteeID).
		Update("partner2_id", inviteeID)
	if res.Error != nil {
		return fmt.Errorf("attach partner to assessment: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("assessment %d already has a partner: %w", assessmentID, ErrConflict)
	}
	return nil
}

// linkPartner sets profileID's partner to partnerID if the stored partner is
// still the one read earlier in the transaction.
func linkPartner(tx *gorm.DB, profileID uint, seen *uint, partnerID uint) error {
	q := tx.Model(&model.Profile{}).Where("id = ?", profileID)
	if seen == nil {
		q = q.Where("partner_id IS NULL")
	} else {
		q = q.Where("partner_id = ?", *seen)
	}
	res := q.Update("partner_id", partnerID)
	if res.Error != nil {
		return fmt.Errorf("link partner on profile %d: %w", profileID, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("profile %d changed partner concurrently: %w", profileID, ErrConflict)
	}
	return nil
}

// loadProfileInto re-reads the profile so the response reflects what was committed.
func (s *inviteService) loadProfileInto(profiles repository.ProfileRepository, id uint, out *dto.ProfileResponseDTO) error {
	profile, err := profiles.FindByID(id)
	if err != nil {
		return lookupErr("profile", err)
	}
	if !profile.HasPaid {
		return fmt.Errorf("profile %d did not inherit payment", id)
	}
	return copier.Copy(out, profile)
}

func (s *inviteService) toInviteDTO(invite *model.PartnerInvite, name string) *dto.InviteResponseDTO {
	return &dto.InviteResponseDTO{
		Token:        invite.Token,
		AssessmentID: invite.AssessmentID,
		Email:        invite.Email,
		InviterName:  name,
		InviteURL:    fmt.Sprintf("%s/invite/%s", s.baseURL, invite.Token),
		ExpiresAt:    invite.ExpiresAt,
	}
}

func inviterName(p *model.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

func isClientError(err error) bool {
	for _, kind := range []error{ErrNotFound, ErrExpired, ErrForbidden, ErrConflict, ErrInvalid, ErrPaymentRequired, ErrUnauthorized} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
