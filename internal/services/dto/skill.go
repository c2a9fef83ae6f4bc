package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreateSkillRequest struct {
	Category    string `json:"category" validate:"required,is-skill-category"` // Custom rule
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	EffortTime  int    `json:"effort_time" validate:"required,min=5,max=1440"`
	IsOffering  *bool  `json:"is_offering" validate:"required"`
}

type UpdateSkillRequest struct {
	Category    *string `json:"category,omitempty" validate:"omitempty,is-skill-category"`
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	EffortTime  *int    `json:"effort_time,omitempty" validate:"omitempty,min=5,max=1440"`
	IsOffering  *bool   `json:"is_offering,omitempty"`
}

// ======================
// Search Criteria DTO (query params)
// ======================

type SkillSearchRequest struct {
	Category   string  `form:"category" validate:"omitempty,is-skill-category"`
	IsOffering *bool   `form:"is_offering"`
	Search     string  `form:"search" validate:"omitempty,max=120"`
	Near       string  `form:"near" validate:"omitempty,max=255"` // Free-text place, geocoded server-side
	DistanceKm float64 `form:"distance_km" validate:"omitempty,min=0,max=500"`
	SortBy     string  `form:"sort_by" validate:"omitempty,oneof=created_at effort_time karma_score"`
	SortDesc   bool    `form:"sort_desc"`
	Page       int     `form:"page" validate:"omitempty,min=1"`
	PageSize   int     `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// ======================
// Response DTOs
// ======================

type SkillResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EffortTime  int       `json:"effort_time"`
	IsOffering  bool      `json:"is_offering"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner *SkillOwnerInfo `json:"owner,omitempty"`
}

type SkillOwnerInfo struct {
	Username   string  `json:"username"`
	KarmaScore float64 `json:"karma_score"`
	Location   string  `json:"location,omitempty"`
}

type SkillListResponse struct {
	Skills     []*SkillResponse `json:"skills"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}
