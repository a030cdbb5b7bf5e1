package service

import (
	"fmt"

	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/repository"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	Stats() (*dto.DashboardStatsDTO, error)
}

type dashboardService struct {
	profileRepo    repository.ProfileRepository
	assessmentRepo repository.AssessmentRepository
	questionRepo   repository.QuestionRepository
	articleRepo    repository.ArticleRepository
}

func NewDashboardService(
	profileRepo repository.ProfileRepository,
	assessmentRepo repository.AssessmentRepository,
	questionRepo repository.QuestionRepository,
	articleRepo repository.ArticleRepository,
) DashboardService {
	return &dashboardService{
		profileRepo:    profileRepo,
		assessmentRepo: assessmentRepo,
		questionRepo:   questionRepo,
		articleRepo:    articleRepo,
	}
}

func (s *dashboardService) Stats() (*dto.DashboardStatsDTO, error) {
	var stats dto.DashboardStatsDTO

	count := func(dst *int64, what string, fn func() (int64, error)) func() error {
		return func() error {
			n, err := fn()
			if err != nil {
				return fmt.Errorf("count %s: %w", what, err)
			}
			*dst = n
			return nil
		}
	}

	var g errgroup.Group
	g.Go(count(&stats.Profiles, "profiles", s.profileRepo.Count))
	g.Go(count(&stats.PaidProfiles, "paid profiles", s.profileRepo.CountPaid))
	g.Go(count(&stats.PendingAssessments, "pending assessments", func() (int64, error) {
		return s.assessmentRepo.CountByStatus(model.AssessmentStatusPending)
	}))
	g.Go(count(&stats.CompletedAssessments, "completed assessments", func() (int64, error) {
		return s.assessmentRepo.CountByStatus(model.AssessmentStatusCompleted)
	}))
	g.Go(count(&stats.PublishedQuestions, "questions", s.questionRepo.CountPublished))
	g.Go(count(&stats.PublishedArticles, "articles", s.articleRepo.CountPublished))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
