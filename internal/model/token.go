package model

import "time"

// RevokedToken blocks a signed-out JWT until it would have expired anyway.
type RevokedToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	JTI       string    `json:"jti" gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentEvent records every processed Stripe webhook event by its ID.
type PaymentEvent struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	StripeEventID string    `json:"stripe_event_id" gorm:"not null;uniqueIndex"`
	Type          string    `json:"type" gorm:"not null"`
	ProfileID     *uint     `json:"profile_id,omitempty" gorm:"index"`
	CreatedAt     time.Time `json:"created_at"`
}
