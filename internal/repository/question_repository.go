package repository

import (
	"github.com/lshigami/Kindred/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindAll() ([]model.Question, error)
	FindPublished() ([]model.Question, error)
	CountPublished() (int64, error)
	CountAnswers(questionID uint) (int64, error)
	Update(question *model.Question) error
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Order("position ASC, id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// FindPublished returns the live questionnaire in display order.
func (r *questionRepository) FindPublished() ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("published = ?", true).Order("position ASC, id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) CountPublished() (int64, error) {
	var n int64
	err := r.db.Model(&model.Question{}).Where("published = ?", true).Count(&n).Error
	return n, err
}

func (r *questionRepository) CountAnswers(questionID uint) (int64, error) {
	var n int64
	err := r.db.Model(&model.Answer{}).Where("question_id = ?", questionID).Count(&n).Error
	return n, err
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}
