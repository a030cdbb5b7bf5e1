package service

import (
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/rs/zerolog/log"
)

type QuestionService interface {
	ListPublished() ([]dto.QuestionResponseDTO, error)
	ListAll() ([]dto.QuestionResponseDTO, error)
	GetQuestion(id uint) (*dto.QuestionResponseDTO, error)
	CreateQuestion(req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	UpdateQuestion(id uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	Publish(id uint) (*dto.QuestionResponseDTO, error)
	Unpublish(id uint) (*dto.QuestionResponseDTO, error)
	DeleteQuestion(id uint) error
}

type questionService struct {
	repo repository.QuestionRepository
	now  func() time.Time
}

func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *questionService) ListPublished() ([]dto.QuestionResponseDTO, error) {
	questions, err := s.repo.FindPublished()
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	return toQuestionDTOs(questions)
}

func (s *questionService) ListAll() ([]dto.QuestionResponseDTO, error) {
	questions, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	return toQuestionDTOs(questions)
}

func (s *questionService) GetQuestion(id uint) (*dto.QuestionResponseDTO, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("question %d", id), err)
	}
	return toQuestionDTO(question)
}

// CreateQuestion always stores a draft; publishing is a separate step.
func (s *questionService) CreateQuestion(req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	question := model.Question{}
	if err := copier.Copy(&question, &req); err != nil {
		return nil, fmt.Errorf("error mapping question: %w", err)
	}
	question.Published = false

	if err := s.repo.Create(&question); err != nil {
		log.Error().Err(err).Msg("Failed to create question in service")
		return nil, fmt.Errorf("create question: %w", err)
	}
	return toQuestionDTO(&question)
}

// UpdateQuestion edits a draft. Published questions are frozen so that
// answers already given keep the wording they were given against.
func (s *questionService) UpdateQuestion(id uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("question %d", id), err)
	}
	if question.Published {
		return nil, fmt.Errorf("question %d is published, unpublish it before editing: %w", id, ErrConflict)
	}

	question.Section = req.Section
	question.Text = req.Text
	question.Explainer = req.Explainer
	question.Position = req.Position
	question.DiscussionQuestion = req.DiscussionQuestion
	question.DiscussionTip = req.DiscussionTip

	if err := s.repo.Update(question); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return toQuestionDTO(question)
}

func (s *questionService) Publish(id uint) (*dto.QuestionResponseDTO, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("question %d", id), err)
	}
	if question.Published {
		return toQuestionDTO(question)
	}
	now := s.now()
	question.Published = true
	question.PublishedAt = &now
	if err := s.repo.Update(question); err != nil {
		return nil, fmt.Errorf("publish question: %w", err)
	}
	log.Info().Uint("questionID", id).Msg("Question published")
	return toQuestionDTO(question)
}

func (s *questionService) Unpublish(id uint) (*dto.QuestionResponseDTO, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("question %d", id), err)
	}
	if !question.Published {
		return toQuestionDTO(question)
	}
	if err := s.ensureUnanswered(id); err != nil {
		return nil, err
	}
	question.Published = false
	question.PublishedAt = nil
	if err := s.repo.Update(question); err != nil {
		return nil, fmt.Errorf("unpublish question: %w", err)
	}
	return toQuestionDTO(question)
}

func (s *questionService) DeleteQuestion(id uint) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return lookupErr(fmt.Sprintf("question %d", id), err)
	}
	if err := s.ensureUnanswered(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	log.Info().Uint("questionID", id).Msg("Question deleted")
	return nil
}

func (s *questionService) ensureUnanswered(id uint) error {
	n, err := s.repo.CountAnswers(id)
	if err != nil {
		return fmt.Errorf("count answers: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("question %d already has %d answers: %w", id, n, ErrConflict)
	}
	return nil
}

func toQuestionDTO(q *model.Question) (*dto.QuestionResponseDTO, error) {
	var resp dto.QuestionResponseDTO
	if err := copier.Copy(&resp, q); err != nil {
		return nil, fmt.Errorf("error preparing question response: %w", err)
	}
	return &resp, nil
}

func toQuestionDTOs(questions []model.Question) ([]dto.QuestionResponseDTO, error) {
	resp := make([]dto.QuestionResponseDTO, 0, len(questions))
	if err := copier.Copy(&resp, &questions); err != nil {
		return nil, fmt.Errorf("error preparing question list: %w", err)
	}
	return resp, nil
}
