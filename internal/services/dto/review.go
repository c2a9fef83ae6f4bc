package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreateReviewRequest struct {
	ReviewedID string `json:"reviewed_id" validate:"required,uuid4"`
	SkillID    string `json:"skill_id" validate:"required,uuid4"`
	Title      string `json:"title" validate:"required,min=3,max=120"`
	Content    string `json:"content" validate:"required,min=10,max=4000"`
}

// ======================
// Response DTOs
// ======================

type ReviewResponse struct {
	ID         string    `json:"id"`
	ReviewerID string    `json:"reviewer_id"`
	ReviewedID string    `json:"reviewed_id"`
	SkillID    string    `json:"skill_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`

	Reviewer *RaterInfo      `json:"reviewer,omitempty"`
	Skill    *SkillBriefInfo `json:"skill,omitempty"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
