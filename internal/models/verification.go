package models

import "time"

// TrustVerification tracks a user's identity/address/professional/social
// verification requests. At most one pending request per (user, type).
type TrustVerification struct {
	BaseModel
	UserID           string `gorm:"not null;index"`
	Type             string `gorm:"type:varchar(20);not null"`
	VerificationData string `gorm:"type:text"`
	Status           string `gorm:"type:varchar(20);default:'pending'"`
	RejectionReason  string
	VerifiedAt       *time.Time
}
