package model

import (
	"time"

	"gorm.io/gorm"
)

type PartnerInvite struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Token        string         `json:"token" gorm:"not null;uniqueIndex"`
	InviterID    uint           `json:"inviter_id" gorm:"not null;index"`
	AssessmentID uint           `json:"assessment_id" gorm:"not null;index"`
	Email        string         `json:"email" gorm:"not null"`
	ExpiresAt    time.Time      `json:"expires_at" gorm:"not null"`
	UsedAt       *time.Time     `json:"used_at,omitempty"`
	UsedByID     *uint          `json:"used_by_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *PartnerInvite) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
