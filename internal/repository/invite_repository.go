package repository

import (
	"github.com/lshigami/Kindred/internal/model"
	"gorm.io/gorm"
)

type InviteRepository interface {
	Create(invite *model.PartnerInvite) error
	FindByToken(token string) (*model.PartnerInvite, error)
	FindOpenByAssessment(assessmentID uint) ([]model.PartnerInvite, error)
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(invite *model.PartnerInvite) error {
	return r.db.Create(invite).Error
}

func (r *inviteRepository) FindByToken(token string) (*model.PartnerInvite, error) {
	var invite model.PartnerInvite
	if err := r.db.Where("token = ?", token).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) FindOpenByAssessment(assessmentID uint) ([]model.PartnerInvite, error) {
	var invites []model.PartnerInvite
	err := r.db.Where("assessment_id = ? AND used_at IS NULL", assessmentID).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}
