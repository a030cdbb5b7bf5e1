package service

import (
	"testing"
	"time"

	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssessmentService(r *repos) *assessmentService {
	s := NewAssessmentService(r.assessments, r.questions, r.answers, r.profiles, r.db).(*assessmentService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func answersFor(values map[uint]string) dto.SubmitAnswersRequest {
	var req dto.SubmitAnswersRequest
	for id, v := range values {
		req.Answers = append(req.Answers, dto.AnswerInputDTO{QuestionID: id, Value: v})
	}
	return req
}

func TestCreateAssessmentRequiresPayment(t *testing.T) {
	r := newRepos(t)
	s := newAssessmentService(r)
	unpaid := r.profile(t, "a@example.com", "A", false)
	paid := r.profile(t, "b@example.com", "B", true)

	_, err := s.Create(unpaid.ID)
	assert.ErrorIs(t, err, ErrPaymentRequired)

	got, err := s.Create(paid.ID)
	require.NoError(t, err)
	assert.Equal(t, paid.ID, got.Partner1ID)
	assert.Equal(t, model.AssessmentStatusPending, got.Status)

	mine, err := s.ListMine(paid.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestSubmitAnswersCompletesWhenBothPartnersFinish(t *testing.T) {
	r := newRepos(t)
	s := newAssessmentService(r)
	p1 := r.profile(t, "a@example.com", "A", true)
	p2 := r.profile(t, "b@example.com", "B", true)
	q1 := r.question(t, "Money", "Joint account?", 1)
	q2 := r.question(t, "Kids", "Want kids?", 2)
	a := r.assessment(t, p1.ID, &p2.ID)

	progress, err := s.SubmitAnswers(a.ID, p1.ID, answersFor(map[uint]string{q1.ID: "Yes", q2.ID: "No"}))
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentStatusPending, progress.Status)
	assert.Equal(t, 2, progress.Partner1Answered)
	assert.Equal(t, 0, progress.Partner2Answered)

	progress, err = s.SubmitAnswers(a.ID, p2.ID, answersFor(map[uint]string{q1.ID: "Yes"}))
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentStatusPending, progress.Status)

	progress, err = s.SubmitAnswers(a.ID, p2.ID, answersFor(map[uint]string{q2.ID: "Yes"}))
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentStatusCompleted, progress.Status)
	assert.Equal(t, 2, progress.TotalQuestions)

	stored, err := r.assessments.FindByID(a.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted())
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.CompletedAt.Equal(fixedNow))

	_, err = s.SubmitAnswers(a.ID, p1.ID, answersFor(map[uint]string{q1.ID: "No"}))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSubmitAnswersRejectsBadInput(t *testing.T) {
	r := newRepos(t)
	s := newAssessmentService(r)
	p1 := r.profile(t, "a@example.com", "A", true)
	stranger := r.profile(t, "c@example.com", "C", true)
	q1 := r.question(t, "Money", "Joint account?", 1)
	draft := &model.Question{Section: "Money", Text: "Draft"}
	require.NoError(t, r.questions.Create(draft))
	a := r.assessment(t, p1.ID, nil)

	_, err := s.SubmitAnswers(a.ID, stranger.ID, answersFor(map[uint]string{q1.ID: "Yes"}))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.SubmitAnswers(a.ID, p1.ID, answersFor(map[uint]string{draft.ID: "Yes"}))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.SubmitAnswers(a.ID, p1.ID, dto.SubmitAnswersRequest{Answers: []dto.AnswerInputDTO{
		{QuestionID: q1.ID, Value: "Yes"},
		{QuestionID: q1.ID, Value: "No"},
	}})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.SubmitAnswers(999, p1.ID, answersFor(map[uint]string{q1.ID: "Yes"}))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.SubmitAnswers(a.ID, p1.ID, answersFor(map[uint]string{q1.ID: "Yes"}))
	require.NoError(t, err)
	_, err = s.SubmitAnswers(a.ID, p1.ID, answersFor(map[uint]string{q1.ID: "No"}))
	assert.ErrorIs(t, err, ErrConflict, "answers are write-once")

	stored, err := r.answers.FindByAssessmentAndRespondent(a.ID, p1.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Yes", stored[0].Value)
}

func TestSoloAssessmentStaysPendingUntilPartnerJoins(t *testing.T) {
	r := newRepos(t)
	s := newAssessmentService(r)
	p1 := r.profile(t, "a@example.com", "A", true)
	q1 := r.question(t, "Money", "Joint account?", 1)
	a := r.assessment(t, p1.ID, nil)

	progress, err := s.SubmitAnswers(a.ID, p1.ID, answersFor(map[uint]string{q1.ID: "Yes"}))
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentStatusPending, progress.Status)
	assert.False(t, progress.HasPartner2)
	assert.Equal(t, 1, progress.Partner1Answered)

	got, err := s.Progress(a.ID, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, progress, got)
}
