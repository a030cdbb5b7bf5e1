package repository

import (
	"testing"
	"time"

	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionRepositoryFindPublishedOrdersByPosition(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)

	require.NoError(t, repo.Create(&model.Question{Section: "B", Text: "third", Position: 3, Published: true}))
	require.NoError(t, repo.Create(&model.Question{Section: "A", Text: "draft", Position: 1}))
	require.NoError(t, repo.Create(&model.Question{Section: "A", Text: "first", Position: 1, Published: true}))
	require.NoError(t, repo.Create(&model.Question{Section: "A", Text: "second", Position: 2, Published: true}))

	published, err := repo.FindPublished()
	require.NoError(t, err)
	require.Len(t, published, 3)
	assert.Equal(t, "first", published[0].Text)
	assert.Equal(t, "second", published[1].Text)
	assert.Equal(t, "third", published[2].Text)

	n, err := repo.CountPublished()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAnswerRepositoryCountsAndUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	answers := NewAnswerRepository(db)

	rows := []model.Answer{
		{AssessmentID: 1, QuestionID: 1, RespondentID: 10, Value: "Yes"},
		{AssessmentID: 1, QuestionID: 2, RespondentID: 10, Value: "No"},
		{AssessmentID: 1, QuestionID: 1, RespondentID: 20, Value: "Yes"},
		{AssessmentID: 2, QuestionID: 1, RespondentID: 10, Value: "Maybe"},
	}
	require.NoError(t, db.Create(&rows).Error)

	dup := model.Answer{AssessmentID: 1, QuestionID: 1, RespondentID: 10, Value: "changed"}
	assert.Error(t, db.Create(&dup).Error, "second answer for the same question must be rejected")

	counts, err := answers.CountByRespondent(1)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{10: 2, 20: 1}, counts)

	mine, err := answers.FindByAssessmentAndRespondent(1, 10)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Yes", mine[0].Value)

	all, err := answers.FindByAssessment(1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAssessmentRepositoryFindAllByPartner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAssessmentRepository(db)

	partner := uint(2)
	require.NoError(t, repo.Create(&model.Assessment{Partner1ID: 1, Status: model.AssessmentStatusPending}))
	require.NoError(t, repo.Create(&model.Assessment{Partner1ID: 3, Partner2ID: &partner, Status: model.AssessmentStatusCompleted}))

	mine, err := repo.FindAllByPartner(2)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].HasPartner(2))
	assert.True(t, mine[0].HasPartner(3))
	assert.False(t, mine[0].HasPartner(1))

	n, err := repo.CountByStatus(model.AssessmentStatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestProfileRepositoryFindByEmailNormalises(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)

	require.NoError(t, repo.Create(&model.Profile{Email: "sam@example.com", PasswordHash: []byte("x")}))

	found, err := repo.FindByEmail("  Sam@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", found.Email)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.Error(t, err)
}

func TestTokenRepositoryRevoke(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTokenRepository(db)
	now := time.Now()

	revoked, err := repo.IsRevoked("abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke("abc", now.Add(time.Hour)))
	require.NoError(t, repo.Revoke("abc", now.Add(time.Hour)))
	require.NoError(t, repo.Revoke("old", now.Add(-time.Hour)))

	revoked, err = repo.IsRevoked("abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	purged, err := repo.PurgeExpired(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
}

func TestPaymentEventRepositoryRecordOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPaymentEventRepository(db)

	first, err := repo.Record(&model.PaymentEvent{StripeEventID: "evt_1", Type: "checkout.session.completed"})
	require.NoError(t, err)
	assert.True(t, first)

	again, err := repo.Record(&model.PaymentEvent{StripeEventID: "evt_1", Type: "checkout.session.completed"})
	require.NoError(t, err)
	assert.False(t, again)
}

func TestContentRepositories(t *testing.T) {
	db := testutil.NewDB(t)
	articles := NewArticleRepository(db)
	faqs := NewFAQRepository(db)

	require.NoError(t, articles.Create(&model.Article{Slug: "draft", Title: "Draft", Body: "..."}))
	require.NoError(t, articles.Create(&model.Article{Slug: "live", Title: "Live", Body: "...", Published: true}))

	live, err := articles.FindAll(true)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "live", live[0].Slug)

	bySlug, err := articles.FindBySlug("draft")
	require.NoError(t, err)
	assert.Equal(t, "Draft", bySlug.Title)

	require.NoError(t, faqs.Create(&model.FAQ{Question: "Second?", Answer: "b", Position: 2, Published: true}))
	require.NoError(t, faqs.Create(&model.FAQ{Question: "First?", Answer: "a", Position: 1, Published: true}))

	list, err := faqs.FindAll(true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First?", list[0].Question)
}
