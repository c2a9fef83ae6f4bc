package handlers

import (
	"favorx_backend/internal/services"
	"favorx_backend/internal/validator"
)

// AppHandlers holds every HTTP handler in the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProfileHandler      *ProfileHandler
	SkillHandler        *SkillHandler
	RatingHandler       *RatingHandler
	ReviewHandler       *ReviewHandler
	KarmaHandler        *KarmaHandler
	MatchingHandler     *MatchingHandler
	ReportHandler       *ReportHandler
	VerificationHandler *VerificationHandler
}

func NewAppHandlers(container *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(validator.New())

	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, container.AuthService),
		ProfileHandler:      NewProfileHandler(base, container.ProfileService, container.LocationService),
		SkillHandler:        NewSkillHandler(base, container.SkillService),
		RatingHandler:       NewRatingHandler(base, container.RatingService),
		ReviewHandler:       NewReviewHandler(base, container.ReviewService),
		KarmaHandler:        NewKarmaHandler(base, container.KarmaService),
		MatchingHandler:     NewMatchingHandler(base, container.LocationService),
		ReportHandler:       NewReportHandler(base, container.ReportService),
		VerificationHandler: NewVerificationHandler(base, container.VerificationService),
	}
}
