package dto

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AnswerInputDTO is one submitted answer. Value is stored exactly as sent.
type AnswerInputDTO struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Value      string `json:"value" binding:"required"`
}

type SubmitAnswersRequest struct {
	Answers []AnswerInputDTO `json:"answers" binding:"required,min=1,dive"`
}

type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}
