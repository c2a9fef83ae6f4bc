package models

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

// Skill categories accepted by the listing validator.
var SkillCategories = []string{
	"household", "errands", "tutoring", "tech", "creative",
	"transport", "care", "cooking", "repair", "other",
}

// Trust verification types
const (
	VerificationTypeID           = "id"
	VerificationTypeAddress      = "address"
	VerificationTypeProfessional = "professional"
	VerificationTypeSocial       = "social"
)

// Trust verification statuses
const (
	VerificationStatusPending  = "pending"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// Report target types
const (
	ReportTypeUser   = "user"
	ReportTypeSkill  = "skill"
	ReportTypeReview = "review"
	ReportTypeRating = "rating"
)

// Report statuses
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// Report reasons
const (
	ReportReasonInappropriate = "inappropriate"
	ReportReasonSpam          = "spam"
	ReportReasonHarassment    = "harassment"
	ReportReasonFake          = "fake"
	ReportReasonScam          = "scam"
	ReportReasonOther         = "other"
)

// Moderation actions
const (
	ModerationActionWarning        = "warning"
	ModerationActionSuspension     = "suspension"
	ModerationActionBan            = "ban"
	ModerationActionContentRemoval = "content_removal"
)
