package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Section            string         `json:"section" gorm:"not null;index"`
	Text               string         `json:"text" gorm:"type:text;not null"`
	Explainer          *string        `json:"explainer,omitempty" gorm:"type:text"`
	Position           int            `json:"position" gorm:"not null;default:0"`
	Published          bool           `json:"published" gorm:"not null;default:false;index"`
	PublishedAt        *time.Time     `json:"published_at,omitempty"`
	DiscussionQuestion *string        `json:"discussion_question,omitempty" gorm:"type:text"`
	DiscussionTip      *string        `json:"discussion_tip,omitempty" gorm:"type:text"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublishedBy reports whether the question was live at t. Questions with no
// recorded publish time count as always live.
func (q Question) PublishedBy(t time.Time) bool {
	return q.PublishedAt == nil || !q.PublishedAt.After(t)
}
