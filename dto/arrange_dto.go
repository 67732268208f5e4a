package dto

type CreateArrangeDTO struct {
	CaseID       uint   `json:"case_id" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Content      string `json:"content,omitempty"`
	EmailContent string `json:"email_content,omitempty"`
}
