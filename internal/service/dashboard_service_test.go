package service

import (
	"testing"

	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	r := newRepos(t)
	s := NewDashboardService(r.profiles, r.assessments, r.questions, r.articles)

	p1 := r.profile(t, "a@example.com", "A", true)
	r.profile(t, "b@example.com", "B", false)
	r.assessment(t, p1.ID, nil)
	done := r.assessment(t, p1.ID, nil)
	done.Status = model.AssessmentStatusCompleted
	require.NoError(t, r.assessments.Update(done))
	r.question(t, "Money", "Joint account?", 1)
	require.NoError(t, r.questions.Create(&model.Question{Section: "Money", Text: "draft"}))
	require.NoError(t, r.articles.Create(&model.Article{Slug: "hello", Title: "Hello", Body: "b", Published: true}))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, dto.DashboardStatsDTO{
		Profiles:             2,
		PaidProfiles:         1,
		PendingAssessments:   1,
		CompletedAssessments: 1,
		PublishedQuestions:   1,
		PublishedArticles:    1,
	}, *stats)
}
