package model

import (
	"time"

	"gorm.io/gorm"
)

type Profile struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Email            string         `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash     []byte         `json:"-" gorm:"not null"`
	FullName         string         `json:"full_name"`
	HasPaid          bool           `json:"has_paid" gorm:"not null;default:false"`
	PaidAt           *time.Time     `json:"paid_at,omitempty"`
	StripeCustomerID *string        `json:"-"`
	PartnerID        *uint          `json:"partner_id,omitempty" gorm:"index"`
	IsAdmin          bool           `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
