package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreateReportRequest struct {
	ReportedID  string `json:"reported_id" validate:"required,uuid4"`
	Type        string `json:"type" validate:"required,oneof=user skill review rating"`
	TargetID    string `json:"target_id" validate:"required,uuid4"`
	Reason      string `json:"reason" validate:"required,oneof=inappropriate spam harassment fake scam other"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type ResolveReportRequest struct {
	ActionType string `json:"action_type" validate:"required,oneof=warning suspension ban content_removal"`
	Reason     string `json:"reason" validate:"required,min=5,max=2000"`
	Duration   *int   `json:"duration,omitempty" validate:"omitempty,min=1,max=8760"` // Hours, suspensions only
}

// ======================
// Criteria DTO (query params)
// ======================

type ReportListCriteria struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending resolved rejected"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// ======================
// Response DTOs
// ======================

type ReportResponse struct {
	ID          string     `json:"id"`
	ReporterID  string     `json:"reporter_id"`
	ReportedID  string     `json:"reported_id"`
	Type        string     `json:"type"`
	TargetID    string     `json:"target_id"`
	Reason      string     `json:"reason"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	ResolvedBy  string     `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ReportListResponse struct {
	Reports    []*ReportResponse `json:"reports"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type ModerationActionResponse struct {
	ID          string    `json:"id"`
	ReportID    string    `json:"report_id"`
	ModeratorID string    `json:"moderator_id"`
	ActionType  string    `json:"action_type"`
	Reason      string    `json:"reason"`
	Duration    *int      `json:"duration,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
