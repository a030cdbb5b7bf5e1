package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer is written once per (assessment, question, respondent) and never updated.
type Answer struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	AssessmentID uint           `json:"assessment_id" gorm:"not null;uniqueIndex:idx_answer_once"`
	QuestionID   uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_once"`
	RespondentID uint           `json:"respondent_id" gorm:"not null;uniqueIndex:idx_answer_once;index"`
	Value        string         `json:"value" gorm:"type:text;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
