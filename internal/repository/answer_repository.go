package repository

import (
	"github.com/lshigami/Kindred/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	FindByAssessment(assessmentID uint) ([]model.Answer, error)
	FindByAssessmentAndRespondent(assessmentID, respondentID uint) ([]model.Answer, error)
	// CountByRespondent returns answered-question counts keyed by respondent.
	CountByRespondent(assessmentID uint) (map[uint]int, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) FindByAssessment(assessmentID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("assessment_id = ?", assessmentID).Order("id ASC").Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindByAssessmentAndRespondent(assessmentID, respondentID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("assessment_id = ? AND respondent_id = ?", assessmentID, respondentID).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) CountByRespondent(assessmentID uint) (map[uint]int, error) {
	var rows []struct {
		RespondentID uint
		Total        int
	}
	err := r.db.Model(&model.Answer{}).
		Select("respondent_id, COUNT(*) AS total").
		Where("assessment_id = ?", assessmentID).
		Group("respondent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.RespondentID] = row.Total
	}
	return counts, nil
}
