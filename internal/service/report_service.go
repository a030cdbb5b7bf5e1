package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/report"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ReportView is a computed report plus the context needed to display it.
// It is rebuilt on every request and never stored.
type ReportView struct {
	Assessment   model.Assessment
	Partner1Name string
	Partner2Name string
	Report       report.Report
	Summary      report.Summary
	GeneratedAt  time.Time
}

type ReportService interface {
	BuildReport(assessmentID, requesterID uint) (*ReportView, error)
	GetReport(assessmentID, requesterID uint) (*dto.ReportResponseDTO, error)
	GetCoachingSummary(ctx context.Context, assessmentID, requesterID uint) (*dto.CoachingSummaryDTO, error)
}

type reportService struct {
	assessmentRepo repository.AssessmentRepository
	questionRepo   repository.QuestionRepository
	answerRepo     repository.AnswerRepository
	profileRepo    repository.ProfileRepository
	coach          GeminiLLMService
	now            func() time.Time
}

func NewReportService(
	assessmentRepo repository.AssessmentRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	profileRepo repository.ProfileRepository,
	coach GeminiLLMService,
) ReportService {
	return &reportService{
		assessmentRepo: assessmentRepo,
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		profileRepo:    profileRepo,
		coach:          coach,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// BuildReport loads the assessment, questionnaire and answers, checks the
// requester may see them, and runs the comparison once.
func (s *reportService) BuildReport(assessmentID, requesterID uint) (*ReportView, error) {
	var (
		assessment *model.Assessment
		questions  []model.Question
		answers    []model.Answer
	)

	var g errgroup.Group
	g.Go(func() error {
		a, err := s.assessmentRepo.FindByID(assessmentID)
		if err != nil {
			return lookupErr(fmt.Sprintf("assessment %d", assessmentID), err)
		}
		assessment = a
		return nil
	})
	g.Go(func() error {
		qs, err := s.questionRepo.FindPublished()
		if err != nil {
			return fmt.Errorf("error fetching questions: %w", err)
		}
		questions = qs
		return nil
	})
	g.Go(func() error {
		as, err := s.answerRepo.FindByAssessment(assessmentID)
		if err != nil {
			return fmt.Errorf("error fetching answers: %w", err)
		}
		answers = as
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Uint("assessmentID", assessmentID).Msg("BuildReport: fetch failed")
		return nil, err
	}

	if !assessment.HasPartner(requesterID) {
		return nil, fmt.Errorf("assessment %d belongs to another couple: %w", assessmentID, ErrForbidden)
	}
	if !assessment.IsCompleted() || assessment.Partner2ID == nil {
		return nil, fmt.Errorf("assessment %d is not completed yet: %w", assessmentID, ErrConflict)
	}

	var answersA, answersB []report.Answer
	for _, a := range answers {
		ra := report.Answer{QuestionID: a.QuestionID, RespondentID: a.RespondentID, Value: a.Value}
		switch a.RespondentID {
		case assessment.Partner1ID:
			answersA = append(answersA, ra)
		case *assessment.Partner2ID:
			answersB = append(answersB, ra)
		}
	}

	if assessment.CompletedAt != nil {
		questions = publishedBy(questions, *assessment.CompletedAt)
	}
	built := report.Build(toReportQuestions(questions), answersA, answersB)
	view := &ReportView{
		Assessment:   *assessment,
		Partner1Name: s.displayName(assessment.Partner1ID, "Partner 1"),
		Partner2Name: s.displayName(*assessment.Partner2ID, "Partner 2"),
		Report:       built,
		Summary:      report.Summarize(built.Comparisons),
		GeneratedAt:  s.now(),
	}
	return view, nil
}

func (s *reportService) GetReport(assessmentID, requesterID uint) (*dto.ReportResponseDTO, error) {
	view, err := s.BuildReport(assessmentID, requesterID)
	if err != nil {
		return nil, err
	}
	assessmentDTO, err := toAssessmentDTO(&view.Assessment)
	if err != nil {
		return nil, err
	}

	resp := dto.ReportResponseDTO{
		Assessment: *assessmentDTO,
		Partner1:   view.Partner1Name,
		Partner2:   view.Partner2Name,
		Summary: dto.ReportSummaryDTO{
			Total:      view.Summary.Total,
			Aligned:    view.Summary.Aligned,
			Misaligned: view.Summary.Misaligned,
			Percentage: view.Summary.Percentage,
		},
		Sections: make([]dto.ReportSectionDTO, 0, len(view.Report.Sections)),
	}
	for _, section := range view.Report.Sections {
		sec := dto.ReportSectionDTO{Name: section.Name, Comparisons: make([]dto.ComparisonDTO, 0, len(section.Comparisons))}
		for _, c := range section.Comparisons {
			sec.Comparisons = append(sec.Comparisons, toComparisonDTO(c))
		}
		resp.Sections = append(resp.Sections, sec)
	}
	return &resp, nil
}

func (s *reportService) GetCoachingSummary(ctx context.Context, assessmentID, requesterID uint) (*dto.CoachingSummaryDTO, error) {
	view, err := s.BuildReport(assessmentID, requesterID)
	if err != nil {
		return nil, err
	}
	text, err := s.coach.SummarizeReport(ctx, view)
	if err != nil {
		log.Error().Err(err).Uint("assessmentID", assessmentID).Msg("GetCoachingSummary: LLM error")
		return nil, err
	}
	return &dto.CoachingSummaryDTO{
		AssessmentID: assessmentID,
		Percentage:   view.Summary.Percentage,
		Summary:      text,
	}, nil
}

func (s *reportService) displayName(profileID uint, fallback string) string {
	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		log.Warn().Err(err).Uint("profileID", profileID).Msg("Report: could not load partner name")
		return fallback
	}
	if profile.FullName != "" {
		return profile.FullName
	}
	return fallback
}

// publishedBy keeps the questions that were live at t, so questions added
// after a couple finished do not count against them.
func publishedBy(questions []model.Question, t time.Time) []model.Question {
	out := questions[:0:0]
	for _, q := range questions {
		if q.PublishedBy(t) {
			out = append(out, q)
		}
	}
	return out
}

func toReportQuestions(questions []model.Question) []report.Question {
	out := make([]report.Question, 0, len(questions))
	for _, q := range questions {
		rq := report.Question{ID: q.ID, Section: q.Section, Text: q.Text}
		if q.Explainer != nil {
			rq.Explainer = *q.Explainer
		}
		if q.DiscussionQuestion != nil && *q.DiscussionQuestion != "" {
			rq.DiscussionPrompt = &report.DiscussionPrompt{QuestionText: *q.DiscussionQuestion}
			if q.DiscussionTip != nil {
				rq.DiscussionPrompt.TipText = *q.DiscussionTip
			}
		}
		out = append(out, rq)
	}
	return out
}

func toComparisonDTO(c report.Comparison) dto.ComparisonDTO {
	out := dto.ComparisonDTO{
		QuestionID:     c.Question.ID,
		Section:        c.Question.Section,
		QuestionText:   c.Question.Text,
		Explainer:      c.Question.Explainer,
		Partner1Answer: c.Partner1Answer,
		Partner2Answer: c.Partner2Answer,
		IsAligned:      c.IsAligned,
	}
	if c.DiscussionPrompt != nil {
		out.DiscussionPrompt = &dto.DiscussionPromptDTO{
			QuestionText: c.DiscussionPrompt.QuestionText,
			TipText:      c.DiscussionPrompt.TipText,
		}
	}
	return out
}
