package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AssessmentStatusPending   = "pending"
	AssessmentStatusCompleted = "completed"
)

type Assessment struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Partner1ID  uint           `json:"partner1_id" gorm:"not null;index"`
	Partner2ID  *uint          `json:"partner2_id,omitempty" gorm:"index"`
	Status      string         `json:"status" gorm:"not null;default:'pending'"` // "pending", "completed"
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Answers     []Answer       `json:"answers,omitempty" gorm:"foreignKey:AssessmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasPartner reports whether profileID is one of the two respondents.
func (a *Assessment) HasPartner(profileID uint) bool {
	if a.Partner1ID == profileID {
		return true
	}
	return a.Partner2ID != nil && *a.Partner2ID == profileID
}

func (a *Assessment) IsCompleted() bool {
	return a.Status == AssessmentStatusCompleted
}
