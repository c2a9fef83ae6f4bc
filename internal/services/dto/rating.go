package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreateRatingRequest struct {
	RatedID string `json:"rated_id" validate:"required,uuid4"`
	SkillID string `json:"skill_id" validate:"required,uuid4"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Review  string `json:"review" validate:"omitempty,max=2000"`
}

// ======================
// Response DTOs
// ======================

type RatingResponse struct {
	ID        string    `json:"id"`
	RaterID   string    `json:"rater_id"`
	RatedID   string    `json:"rated_id"`
	SkillID   string    `json:"skill_id"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Rater *RaterInfo      `json:"rater,omitempty"`
	Skill *SkillBriefInfo `json:"skill,omitempty"`
}

type RaterInfo struct {
	Username   string  `json:"username"`
	KarmaScore float64 `json:"karma_score"`
}

type SkillBriefInfo struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

type RatingListResponse struct {
	Ratings    []*RatingResponse `json:"ratings"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
