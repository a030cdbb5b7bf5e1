package dto

// QuestionCreateDTO is used by admins to create or edit a draft question.
type QuestionCreateDTO struct {
	Section            string  `json:"section" binding:"required,max=120"`
	Text               string  `json:"text" binding:"required"`
	Explainer          *string `json:"explainer"`
	Position           int     `json:"position" binding:"min=0"`
	DiscussionQuestion *string `json:"discussion_question"`
	DiscussionTip      *string `json:"discussion_tip"`
}

type ArticleCreateDTO struct {
	Slug    string `json:"slug" binding:"required,max=160"`
	Title   string `json:"title" binding:"required,max=200"`
	Summary string `json:"summary" binding:"max=500"`
	Body    string `json:"body" binding:"required"`
}

type FAQCreateDTO struct {
	Question  string `json:"question" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
	Position  int    `json:"position" binding:"min=0"`
	Published bool   `json:"published"`
}

type DashboardStatsDTO struct {
	Profiles             int64 `json:"profiles"`
	PaidProfiles         int64 `json:"paid_profiles"`
	PendingAssessments   int64 `json:"pending_assessments"`
	CompletedAssessments int64 `json:"completed_assessments"`
	PublishedQuestions   int64 `json:"published_questions"`
	PublishedArticles    int64 `json:"published_articles"`
}
