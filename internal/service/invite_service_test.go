package service

import (
	"testing"
	"time"

	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type inviteFixture struct {
	r       *repos
	s       *inviteService
	mail    *fakeMailer
	inviter *model.Profile
	invitee *model.Profile
	a       *model.Assessment
}

func newInviteFixture(t *testing.T, inviterPaid bool) *inviteFixture {
	r := newRepos(t)
	mail := &fakeMailer{}
	s := NewInviteService(r.invites, r.assessments, r.profiles, mail, testConfig(), r.db).(*inviteService)
	s.now = func() time.Time { return fixedNow }
	s.newToken = func() string { return "tok-1" }

	f := &inviteFixture{r: r, s: s, mail: mail}
	f.inviter = r.profile(t, "ana@example.com", "Ana", inviterPaid)
	f.invitee = r.profile(t, "ben@example.com", "Ben", false)
	f.a = r.assessment(t, f.inviter.ID, nil)
	return f
}

// seedInvite inserts an invite directly so tests can control payment state.
func (f *inviteFixture) seedInvite(t *testing.T, expiresAt time.Time) *model.PartnerInvite {
	inv := &model.PartnerInvite{
		Token:        "tok-seeded",
		InviterID:    f.inviter.ID,
		AssessmentID: f.a.ID,
		Email:        f.invitee.Email,
		ExpiresAt:    expiresAt,
	}
	require.NoError(t, f.r.invites.Create(inv))
	return inv
}

func TestCreateInviteSendsEmail(t *testing.T) {
	f := newInviteFixture(t, true)

	resp, err := f.s.CreateInvite(t.Context(), f.a.ID, f.inviter.ID, dto.CreateInviteRequest{Email: "ben@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "https://kindred.test/invite/tok-1", resp.InviteURL)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), resp.ExpiresAt)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "ben@example.com", f.mail.sent[0].To)
	assert.Equal(t, "Ana", f.mail.sent[0].InviterName)
	assert.Equal(t, resp.InviteURL, f.mail.sent[0].Link)

	f.s.newToken = func() string { return "tok-2" }
	again, err := f.s.CreateInvite(t.Context(), f.a.ID, f.inviter.ID, dto.CreateInviteRequest{Email: "ben@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", again.Token, "a live invite is re-sent rather than duplicated")
	assert.Len(t, f.mail.sent, 2)
}

func TestCreateInviteSurvivesMailFailure(t *testing.T) {
	f := newInviteFixture(t, true)
	f.mail.err = errBoom

	resp, err := f.s.CreateInvite(t.Context(), f.a.ID, f.inviter.ID, dto.CreateInviteRequest{Email: "ben@example.com"})
	require.NoError(t, err)

	stored, err := f.r.invites.FindByToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, f.a.ID, stored.AssessmentID)
}

func TestCreateInviteGuards(t *testing.T) {
	f := newInviteFixture(t, true)

	_, err := f.s.CreateInvite(t.Context(), f.a.ID, f.invitee.ID, dto.CreateInviteRequest{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.s.CreateInvite(t.Context(), f.a.ID, f.inviter.ID, dto.CreateInviteRequest{Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrInvalid)

	unpaid := newInviteFixture(t, false)
	_, err = unpaid.s.CreateInvite(t.Context(), unpaid.a.ID, unpaid.inviter.ID, dto.CreateInviteRequest{Email: "ben@example.com"})
	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestAcceptInviteInheritsPayment(t *testing.T) {
	f := newInviteFixture(t, true)
	inv := f.seedInvite(t, fixedNow.Add(time.Hour))

	resp, err := f.s.AcceptInvite(inv.Token, f.invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, f.a.ID, resp.AssessmentID)
	assert.True(t, resp.Profile.HasPaid)
	require.NotNil(t, resp.Profile.PartnerID)
	assert.Equal(t, f.inviter.ID, *resp.Profile.PartnerID)

	inviter, err := f.r.profiles.FindByID(f.inviter.ID)
	require.NoError(t, err)
	require.NotNil(t, inviter.PartnerID)
	assert.Equal(t, f.invitee.ID, *inviter.PartnerID)

	a, err := f.r.assessments.FindByID(f.a.ID)
	require.NoError(t, err)
	require.NotNil(t, a.Partner2ID)
	assert.Equal(t, f.invitee.ID, *a.Partner2ID)

	used, err := f.r.invites.FindByToken(inv.Token)
	require.NoError(t, err)
	assert.NotNil(t, used.UsedAt)

	again, err := f.s.AcceptInvite(inv.Token, f.invitee.ID)
	require.NoError(t, err, "accepting twice as the same person is a no-op")
	assert.Equal(t, resp.Profile.ID, again.Profile.ID)

	third := f.r.profile(t, "cat@example.com", "Cat", false)
	_, err = f.s.AcceptInvite(inv.Token, third.ID)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = f.s.GetInvite(inv.Token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestAcceptInviteChangesNothingWhenInviterUnpaid(t *testing.T) {
	f := newInviteFixture(t, false)
	inv := f.seedInvite(t, fixedNow.Add(time.Hour))

	_, err := f.s.AcceptInvite(inv.Token, f.invitee.ID)
	assert.ErrorIs(t, err, ErrPaymentRequired)

	stored, err := f.r.invites.FindByToken(inv.Token)
	require.NoError(t, err)
	assert.Nil(t, stored.UsedAt)

	invitee, err := f.r.profiles.FindByID(f.invitee.ID)
	require.NoError(t, err)
	assert.False(t, invitee.HasPaid)
	assert.Nil(t, invitee.PartnerID)

	a, err := f.r.assessments.FindByID(f.a.ID)
	require.NoError(t, err)
	assert.Nil(t, a.Partner2ID)
}

func TestAcceptInviteRejectsBadTokens(t *testing.T) {
	f := newInviteFixture(t, true)

	_, err := f.s.AcceptInvite("missing", f.invitee.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	inv := f.seedInvite(t, fixedNow)
	_, err = f.s.AcceptInvite(inv.Token, f.invitee.ID)
	assert.ErrorIs(t, err, ErrExpired, "an invite expires at its expiry instant")

	_, err = f.s.GetInvite(inv.Token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestAcceptOwnInvite(t *testing.T) {
	f := newInviteFixture(t, true)
	inv := f.seedInvite(t, fixedNow.Add(time.Hour))

	_, err := f.s.AcceptInvite(inv.Token, f.inviter.ID)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestGetInvite(t *testing.T) {
	f := newInviteFixture(t, true)
	inv := f.seedInvite(t, fixedNow.Add(time.Hour))

	got, err := f.s.GetInvite(inv.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.InviterName)
	assert.Equal(t, f.a.ID, got.AssessmentID)
}

func TestCreateInviteNormalisesEmail(t *testing.T) {
	f := newInviteFixture(t, true)

	_, err := f.s.CreateInvite(t.Context(), f.a.ID, f.inviter.ID, dto.CreateInviteRequest{Email: " Ana@Example.com "})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, f.mail.sent)

	resp, err := f.s.CreateInvite(t.Context(), f.a.ID, f.inviter.ID, dto.CreateInviteRequest{Email: "Ben@Example.COM"})
	require.NoError(t, err)
	assert.Equal(t, "ben@example.com", resp.Email)
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "ben@example.com", f.mail.sent[0].To)

	f.s.newToken = func() string { return "tok-2" }
	again, err := f.s.CreateInvite(t.Context(), f.a.ID, f.inviter.ID, dto.CreateInviteRequest{Email: "ben@example.com"})
	require.NoError(t, err)
	assert.Equal(t, resp.Token, again.Token)
}

func TestSecondInviteeCannotTakeFilledSeat(t *testing.T) {
	f := newInviteFixture(t, true)
	cat := f.r.profile(t, "cat@example.com", "Cat", false)

	first, err := f.s.CreateInvite(t.Context(), f.a.ID, f.inviter.ID, dto.CreateInviteRequest{Email: "ben@example.com"})
	require.NoError(t, err)
	f.s.newToken = func() string { return "tok-2" }
	second, err := f.s.CreateInvite(t.Context(), f.a.ID, f.inviter.ID, dto.CreateInviteRequest{Email: "cat@example.com"})
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = f.s.AcceptInvite(first.Token, f.invitee.ID)
	require.NoError(t, err)

	_, err = f.s.AcceptInvite(second.Token, cat.ID)
	assert.ErrorIs(t, err, ErrConflict)

	storedCat, err := f.r.profiles.FindByID(cat.ID)
	require.NoError(t, err)
	assert.False(t, storedCat.HasPaid)
	assert.Nil(t, storedCat.PartnerID)

	unused, err := f.r.invites.FindByToken(second.Token)
	require.NoError(t, err)
	assert.Nil(t, unused.UsedAt)

	inviter, err := f.r.profiles.FindByID(f.inviter.ID)
	require.NoError(t, err)
	require.NotNil(t, inviter.PartnerID)
	assert.Equal(t, f.invitee.ID, *inviter.PartnerID)

	a, err := f.r.assessments.FindByID(f.a.ID)
	require.NoError(t, err)
	require.NotNil(t, a.Partner2ID)
	assert.Equal(t, f.invitee.ID, *a.Partner2ID)
}

// A rival attachment that lands after the partner check but before the
// write must not be overwritten.
func TestAcceptInviteDoesNotOverwriteConcurrentPartner(t *testing.T) {
	f := newInviteFixture(t, true)
	rival := f.r.profile(t, "cat@example.com", "Cat", false)
	inv := f.seedInvite(t, fixedNow.Add(time.Hour))

	fired := false
	err := f.r.db.Callback().Update().Before("gorm:update").Register("test:rival_partner", func(tx *gorm.DB) {
		if fired || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "partner_invites" {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE assessments SET partner2_id = ? WHERE id = ?", rival.ID, f.a.ID)
	})
	require.NoError(t, err)

	_, err = f.s.AcceptInvite(inv.Token, f.invitee.ID)
	require.True(t, fired)
	assert.ErrorIs(t, err, ErrConflict)

	invitee, err := f.r.profiles.FindByID(f.invitee.ID)
	require.NoError(t, err)
	assert.False(t, invitee.HasPaid)

	stored, err := f.r.invites.FindByToken(inv.Token)
	require.NoError(t, err)
	assert.Nil(t, stored.UsedAt)
}

func TestAttachAndLinkAreConditional(t *testing.T) {
	f := newInviteFixture(t, true)
	rival := f.r.profile(t, "cat@example.com", "Cat", false)
	require.NoError(t, f.r.db.Model(&model.Assessment{}).Where("id = ?", f.a.ID).Update("partner2_id", rival.ID).Error)

	err := f.r.db.Transaction(func(tx *gorm.DB) error {
		return attachPartner(tx, f.a.ID, f.invitee.ID)
	})
	assert.ErrorIs(t, err, ErrConflict)

	err = f.r.db.Transaction(func(tx *gorm.DB) error {
		return attachPartner(tx, f.a.ID, rival.ID)
	})
	assert.NoError(t, err, "the current holder may re-attach")

	err = f.r.db.Transaction(func(tx *gorm.DB) error {
		return linkPartner(tx, f.inviter.ID, &rival.ID, f.invitee.ID)
	})
	assert.ErrorIs(t, err, ErrConflict, "the stored partner is not what the caller saw")

	err = f.r.db.Transaction(func(tx *gorm.DB) error {
		return linkPartner(tx, f.inviter.ID, nil, f.invitee.ID)
	})
	require.NoError(t, err)
	inviter, err := f.r.profiles.FindByID(f.inviter.ID)
	require.NoError(t, err)
	require.NotNil(t, inviter.PartnerID)
	assert.Equal(t, f.invitee.ID, *inviter.PartnerID)
}
