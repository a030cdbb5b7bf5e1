package dto

type DiscussionPromptDTO struct {
	QuestionText string `json:"question_text"`
	TipText      string `json:"tip_text,omitempty"`
}

type ComparisonDTO struct {
	QuestionID       uint                 `json:"question_id"`
	Section          string               `json:"section"`
	QuestionText     string               `json:"question_text"`
	Explainer        string               `json:"explainer,omitempty"`
	Partner1Answer   string               `json:"partner1_answer"`
	Partner2Answer   string               `json:"partner2_answer"`
	IsAligned        bool                 `json:"is_aligned"`
	DiscussionPrompt *DiscussionPromptDTO `json:"discussion_prompt,omitempty"`
}

type ReportSectionDTO struct {
	Name        string          `json:"name"`
	Comparisons []ComparisonDTO `json:"comparisons"`
}

type ReportSummaryDTO struct {
	Total      int `json:"total"`
	Aligned    int `json:"aligned"`
	Misaligned int `json:"misaligned"`
	Percentage int `json:"percentage"`
}

type ReportResponseDTO struct {
	Assessment AssessmentResponseDTO `json:"assessment"`
	Partner1   string                `json:"partner1_name"`
	Partner2   string                `json:"partner2_name"`
	Summary    ReportSummaryDTO      `json:"summary"`
	Sections   []ReportSectionDTO    `json:"sections"`
}

type CoachingSummaryDTO struct {
	AssessmentID uint   `json:"assessment_id"`
	Percentage   int    `json:"percentage"`
	Summary      string `json:"summary"`
}
