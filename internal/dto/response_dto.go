package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ProfileResponseDTO struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	HasPaid   bool       `json:"has_paid"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	PartnerID *uint      `json:"partner_id,omitempty"`
	IsAdmin   bool       `json:"is_admin"`
}

type AuthResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Profile   ProfileResponseDTO `json:"profile"`
}

type QuestionResponseDTO struct {
	ID                 uint    `json:"id"`
	Section            string  `json:"section"`
	Text               string  `json:"text"`
	Explainer          *string `json:"explainer,omitempty"`
	Position           int     `json:"position"`
	Published          bool       `json:"published"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
	DiscussionQuestion *string    `json:"discussion_question,omitempty"`
	DiscussionTip      *string    `json:"discussion_tip,omitempty"`
}

type AssessmentResponseDTO struct {
	ID          uint       `json:"id"`
	Partner1ID  uint       `json:"partner1_id"`
	Partner2ID  *uint      `json:"partner2_id,omitempty"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type AssessmentProgressDTO struct {
	AssessmentID     uint   `json:"assessment_id"`
	Status           string `json:"status"`
	TotalQuestions   int    `json:"total_questions"`
	Partner1Answered int    `json:"partner1_answered"`
	Partner2Answered int    `json:"partner2_answered"`
	HasPartner2      bool   `json:"has_partner2"`
}

type InviteResponseDTO struct {
	Token        string    `json:"token"`
	AssessmentID uint      `json:"assessment_id"`
	Email        string    `json:"email"`
	InviterName  string    `json:"inviter_name,omitempty"`
	InviteURL    string    `json:"invite_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AcceptInviteResponseDTO struct {
	AssessmentID uint               `json:"assessment_id"`
	Profile      ProfileResponseDTO `json:"profile"`
}

type CheckoutResponseDTO struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type ArticleResponseDTO struct {
	ID            uint       `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary,omitempty"`
	Body          string     `json:"body,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type FAQResponseDTO struct {
	ID        uint   `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Position  int    `json:"position"`
	Published bool   `json:"published"`
}
