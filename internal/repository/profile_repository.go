package repository

import (
	"strings"

	"github.com/lshigami/Kindred/internal/model"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	FindByID(id uint) (*model.Profile, error)
	FindByEmail(email string) (*model.Profile, error)
	Update(profile *model.Profile) error
	Count() (int64, error)
	CountPaid() (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) FindByID(id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail matches case-insensitively; emails are stored lower-cased.
func (r *profileRepository) FindByEmail(email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(profile *model.Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.Profile{}).Count(&n).Error
	return n, err
}

func (r *profileRepository) CountPaid() (int64, error) {
	var n int64
	err := r.db.Model(&model.Profile{}).Where("has_paid = ?", true).Count(&n).Error
	return n, err
}
