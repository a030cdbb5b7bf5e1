package repository

import (
	"github.com/lshigami/Kindred/internal/model"
	"gorm.io/gorm"
)

type AssessmentRepository interface {
	Create(assessment *model.Assessment) error
	Update(assessment *model.Assessment) error
	FindByID(id uint) (*model.Assessment, error)
	FindAllByPartner(profileID uint) ([]model.Assessment, error)
	CountByStatus(status string) (int64, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Create(assessment *model.Assessment) error {
	return r.db.Create(assessment).Error
}

func (r *assessmentRepository) Update(assessment *model.Assessment) error {
	return r.db.Save(assessment).Error
}

func (r *assessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var assessment model.Assessment
	if err := r.db.First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepository) FindAllByPartner(profileID uint) ([]model.Assessment, error) {
	var assessments []model.Assessment
	err := r.db.Where("partner1_id = ? OR partner2_id = ?", profileID, profileID).
		Order("created_at DESC").
		Find(&assessments).Error
	return assessments, err
}

func (r *assessmentRepository) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&model.Assessment{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
