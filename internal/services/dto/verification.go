package dto

import "time"

// ======================
// Request DTOs
// ======================

type SubmitVerificationRequest struct {
	Type             string `json:"type" validate:"required,oneof=id address professional social"`
	VerificationData string `json:"verification_data" validate:"required,max=4000"`
}

type RejectVerificationRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=2000"`
}

// ======================
// Response DTOs
// ======================

type VerificationResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type VerificationListResponse struct {
	Verifications []*VerificationResponse `json:"verifications"`
	Total         int                     `json:"total"`
}
