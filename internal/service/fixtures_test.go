package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/lshigami/Kindred/config"
	"github.com/lshigami/Kindred/internal/mailer"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/payment"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/lshigami/Kindred/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type repos struct {
	db          *gorm.DB
	profiles    repository.ProfileRepository
	assessments repository.AssessmentRepository
	questions   repository.QuestionRepository
	answers     repository.AnswerRepository
	invites     repository.InviteRepository
	tokens      repository.TokenRepository
	articles    repository.ArticleRepository
	faqs        repository.FAQRepository
}

func newRepos(t *testing.T) *repos {
	db := testutil.NewDB(t)
	return &repos{
		db:          db,
		profiles:    repository.NewProfileRepository(db),
		assessments: repository.NewAssessmentRepository(db),
		questions:   repository.NewQuestionRepository(db),
		answers:     repository.NewAnswerRepository(db),
		invites:     repository.NewInviteRepository(db),
		tokens:      repository.NewTokenRepository(db),
		articles:    repository.NewArticleRepository(db),
		faqs:        repository.NewFAQRepository(db),
	}
}

func (r *repos) profile(t *testing.T, email, name string, paid bool) *model.Profile {
	t.Helper()
	p := &model.Profile{Email: email, FullName: name, PasswordHash: []byte("x"), HasPaid: paid}
	if paid {
		at := fixedNow.Add(-time.Hour)
		p.PaidAt = &at
	}
	require.NoError(t, r.profiles.Create(p))
	return p
}

func (r *repos) question(t *testing.T, section, text string, position int) *model.Question {
	t.Helper()
	q := &model.Question{Section: section, Text: text, Position: position, Published: true}
	require.NoError(t, r.questions.Create(q))
	return q
}

func (r *repos) assessment(t *testing.T, p1 uint, p2 *uint) *model.Assessment {
	t.Helper()
	a := &model.Assessment{Partner1ID: p1, Partner2ID: p2, Status: model.AssessmentStatusPending}
	require.NoError(t, r.assessments.Create(a))
	return a
}

func ptr[T any](v T) *T { return &v }

type fakeSigner struct{}

func (fakeSigner) Sign(p *model.Profile) (string, time.Time, error) {
	return fmt.Sprintf("token-for-%d", p.ID), fixedNow.Add(time.Hour), nil
}

type fakeMailer struct {
	sent []mailer.PartnerInvite
	err  error
}

func (m *fakeMailer) SendPartnerInvite(_ context.Context, invite mailer.PartnerInvite) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, invite)
	return nil
}

type fakeProvider struct {
	event    *payment.WebhookEvent
	parseErr error
	requests []payment.CheckoutRequest
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	p.requests = append(p.requests, req)
	return &payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

func (p *fakeProvider) ParseWebhook([]byte, string) (*payment.WebhookEvent, error) {
	if p.parseErr != nil {
		return nil, p.parseErr
	}
	return p.event, nil
}

type fakeCoach struct {
	text string
	seen *ReportView
}

func (c *fakeCoach) SummarizeReport(_ context.Context, view *ReportView) (string, error) {
	c.seen = view
	if c.text == "" {
		return "", fmt.Errorf("coach: %w", ErrUnavailable)
	}
	return c.text, nil
}

type fakeUploader struct {
	objects map[string][]byte
	deleted []string
	err     error
}

func (u *fakeUploader) Upload(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[key] = b
	return "https://files.example/" + key, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{BaseURL: "https://kindred.test"}
}
