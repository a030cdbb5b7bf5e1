package model

import (
	"time"

	"gorm.io/gorm"
)

type Article struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Slug          string         `json:"slug" gorm:"not null;uniqueIndex"`
	Title         string         `json:"title" gorm:"not null"`
	Summary       string         `json:"summary,omitempty" gorm:"type:text"`
	Body          string         `json:"body" gorm:"type:text;not null"`
	CoverImageURL *string        `json:"cover_image_url,omitempty"`
	Published     bool           `json:"published" gorm:"not null;default:false;index"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type FAQ struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Question  string         `json:"question" gorm:"type:text;not null"`
	Answer    string         `json:"answer" gorm:"type:text;not null"`
	Position  int            `json:"position" gorm:"not null;default:0"`
	Published bool           `json:"published" gorm:"not null;default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FAQ) TableName() string {
	return "faqs"
}
