package service

import (
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AssessmentService interface {
	Create(ownerID uint) (*dto.AssessmentResponseDTO, error)
	Get(assessmentID, requesterID uint) (*dto.AssessmentResponseDTO, error)
	ListMine(requesterID uint) ([]dto.AssessmentResponseDTO, error)
	SubmitAnswers(assessmentID, requesterID uint, req dto.SubmitAnswersRequest) (*dto.AssessmentProgressDTO, error)
	Progress(assessmentID, requesterID uint) (*dto.AssessmentProgressDTO, error)
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
	questionRepo   repository.QuestionRepository
	answerRepo     repository.AnswerRepository
	profileRepo    repository.ProfileRepository
	db             *gorm.DB // For transactions
	now            func() time.Time
}

func NewAssessmentService(
	assessmentRepo repository.AssessmentRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	profileRepo repository.ProfileRepository,
	db *gorm.DB,
) AssessmentService {
	return &assessmentService{
		assessmentRepo: assessmentRepo,
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		profileRepo:    profileRepo,
		db:             db,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *assessmentService) Create(ownerID uint) (*dto.AssessmentResponseDTO, error) {
	owner, err := s.profileRepo.FindByID(ownerID)
	if err != nil {
		return nil, lookupErr("profile", err)
	}
	if !owner.HasPaid {
		return nil, fmt.Errorf("an assessment requires a completed purchase: %w", ErrPaymentRequired)
	}

	assessment := model.Assessment{
		Partner1ID: owner.ID,
		Status:     model.AssessmentStatusPending,
	}
	if err := s.assessmentRepo.Create(&assessment); err != nil {
		log.Error().Err(err).Uint("profileID", ownerID).Msg("Create assessment: database error")
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	log.Info().Uint("assessmentID", assessment.ID).Uint("profileID", ownerID).Msg("Assessment created")
	return toAssessmentDTO(&assessment)
}

func (s *assessmentService) Get(assessmentID, requesterID uint) (*dto.AssessmentResponseDTO, error) {
	assessment, err := s.loadForPartner(assessmentID, requesterID)
	if err != nil {
		return nil, err
	}
	return toAssessmentDTO(assessment)
}

func (s *assessmentService) ListMine(requesterID uint) ([]dto.AssessmentResponseDTO, error) {
	assessments, err := s.assessmentRepo.FindAllByPartner(requesterID)
	if err != nil {
		log.Error().Err(err).Uint("profileID", requesterID).Msg("ListMine: repository error")
		return nil, fmt.Errorf("error fetching assessments: %w", err)
	}
	resp := make([]dto.AssessmentResponseDTO, 0, len(assessments))
	if err := copier.Copy(&resp, &assessments); err != nil {
		return nil, fmt.Errorf("error preparing assessments response: %w", err)
	}
	return resp, nil
}

// SubmitAnswers stores a batch of answers for the requester. Answers are
// write-once: resubmitting a question already answered is a conflict and the
// whole batch is rejected. The assessment completes when both partners have
// answered every published question.
func (s *assessmentService) SubmitAnswers(assessmentID, requesterID uint, req dto.SubmitAnswersRequest) (*dto.AssessmentProgressDTO, error) {
	if len(req.Answers) == 0 {
		return nil, fmt.Errorf("submission must contain at least one answer: %w", ErrInvalid)
	}

	assessment, err := s.loadForPartner(assessmentID, requesterID)
	if err != nil {
		return nil, err
	}
	if assessment.IsCompleted() {
		return nil, fmt.Errorf("assessment %d is already completed: %w", assessmentID, ErrConflict)
	}

	questions, err := s.questionRepo.FindPublished()
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	published := make(map[uint]bool, len(questions))
	for _, q := range questions {
		published[q.ID] = true
	}

	seen := make(map[uint]bool, len(req.Answers))
	answers := make([]model.Answer, 0, len(req.Answers))
	for _, in := range req.Answers {
		if !published[in.QuestionID] {
			return nil, fmt.Errorf("question %d is not part of the questionnaire: %w", in.QuestionID, ErrInvalid)
		}
		if seen[in.QuestionID] {
			return nil, fmt.Errorf("question %d answered twice in one submission: %w", in.QuestionID, ErrInvalid)
		}
		seen[in.QuestionID] = true
		answers = append(answers, model.Answer{
			AssessmentID: assessment.ID,
			QuestionID:   in.QuestionID,
			RespondentID: requesterID,
			Value:        in.Value,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := repository.NewAnswerRepository(tx).FindByAssessmentAndRespondent(assessment.ID, requesterID)
		if err != nil {
			return fmt.Errorf("load existing answers: %w", err)
		}
		for _, a := range existing {
			if seen[a.QuestionID] {
				return fmt.Errorf("question %d was already answered: %w", a.QuestionID, ErrConflict)
			}
		}
		if err := tx.Create(&answers).Error; err != nil {
			return fmt.Errorf("store answers: %w", err)
		}
		return completeIfDone(tx, assessment, len(questions), s.now())
	})
	if err != nil {
		log.Error().Err(err).Uint("assessmentID", assessmentID).Uint("profileID", requesterID).Msg("SubmitAnswers: transaction failed")
		return nil, err
	}

	log.Info().Uint("assessmentID", assessmentID).Uint("profileID", requesterID).Int("answers", len(answers)).Str("status", assessment.Status).Msg("Answers submitted")
	return s.progress(assessment, len(questions))
}

func (s *assessmentService) Progress(assessmentID, requesterID uint) (*dto.AssessmentProgressDTO, error) {
	assessment, err := s.loadForPartner(assessmentID, requesterID)
	if err != nil {
		return nil, err
	}
	total, err := s.questionRepo.CountPublished()
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	return s.progress(assessment, int(total))
}

func (s *assessmentService) progress(assessment *model.Assessment, total int) (*dto.AssessmentProgressDTO, error) {
	counts, err := s.answerRepo.CountByRespondent(assessment.ID)
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}
	resp := dto.AssessmentProgressDTO{
		AssessmentID:     assessment.ID,
		Status:           assessment.Status,
		TotalQuestions:   total,
		Partner1Answered: counts[assessment.Partner1ID],
		HasPartner2:      assessment.Partner2ID != nil,
	}
	if assessment.Partner2ID != nil {
		resp.Partner2Answered = counts[*assessment.Partner2ID]
	}
	return &resp, nil
}

func (s *assessmentService) loadForPartner(assessmentID, requesterID uint) (*model.Assessment, error) {
	assessment, err := s.assessmentRepo.FindByID(assessmentID)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("assessment %d", assessmentID), err)
	}
	if !assessment.HasPartner(requesterID) {
		return nil, fmt.Errorf("assessment %d belongs to another couple: %w", assessmentID, ErrForbidden)
	}
	return assessment, nil
}

// completeIfDone flips a pending assessment to completed once both partners
// have answered every published question. It must run inside tx.
func completeIfDone(tx *gorm.DB, assessment *model.Assessment, totalQuestions int, now time.Time) error {
	if assessment.IsCompleted() || assessment.Partner2ID == nil || totalQuestions == 0 {
		return nil
	}
	for _, respondent := range []uint{assessment.Partner1ID, *assessment.Partner2ID} {
		var answered int64
		err := tx.Model(&model.Answer{}).
			Joins("JOIN questions ON questions.id = answers.question_id AND questions.published = ? AND questions.deleted_at IS NULL", true).
			Where("answers.assessment_id = ? AND answers.respondent_id = ?", assessment.ID, respondent).
			Count(&answered).Error
		if err != nil {
			return fmt.Errorf("count answers for respondent %d: %w", respondent, err)
		}
		if int(answered) < totalQuestions {
			return nil
		}
	}

	res := tx.Model(&model.Assessment{}).
		Where("id = ? AND status = ?", assessment.ID, model.AssessmentStatusPending).
		Updates(map[string]interface{}{"status": model.AssessmentStatusCompleted, "completed_at": now})
	if res.Error != nil {
		return fmt.Errorf("complete assessment: %w", res.Error)
	}
	assessment.Status = model.AssessmentStatusCompleted
	assessment.CompletedAt = &now
	log.Info().Uint("assessmentID", assessment.ID).Msg("Assessment completed")
	return nil
}

func toAssessmentDTO(assessment *model.Assessment) (*dto.AssessmentResponseDTO, error) {
	var resp dto.AssessmentResponseDTO
	if err := copier.Copy(&resp, assessment); err != nil {
		return nil, fmt.Errorf("error preparing assessment response: %w", err)
	}
	return &resp, nil
}
