package services

import (
	"favorx_backend/internal/cache"
	"favorx_backend/internal/email"
	"favorx_backend/internal/geo"
	"favorx_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer holds every application service, wired once at startup.
type ServiceContainer struct {
	AuthService         AuthService
	ProfileService      ProfileService
	SkillService        SkillService
	RatingService       RatingService
	ReviewService       ReviewService
	KarmaService        KarmaService
	LocationService     LocationService
	ReportService       ReportService
	VerificationService VerificationService

	RefreshTokenRepo repositories.RefreshTokenRepository
	EmailProvider    email.Provider
}

// NewServiceContainer builds the repository and service graph.
func NewServiceContainer(
	db *gorm.DB,
	cacheStore cache.Cache,
	locationIndex geo.LocationIndex,
	geocoder geo.Geocoder,
	emailProvider email.Provider,
) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	skillRepo := repositories.NewSkillRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	karmaService := NewKarmaService(ratingRepo, skillRepo, userRepo, cacheStore)
	ratingService := NewRatingService(ratingRepo, skillRepo, userRepo, karmaService)
	reviewService := NewReviewService(reviewRepo, ratingRepo, skillRepo, karmaService)

	return &ServiceContainer{
		AuthService:     NewAuthService(userRepo, profileRepo, refreshTokenRepo, emailProvider),
		ProfileService:  NewProfileService(profileRepo, userRepo),
		SkillService:    NewSkillService(skillRepo, geocoder, karmaService),
		RatingService:   ratingService,
		ReviewService:   reviewService,
		KarmaService:    karmaService,
		LocationService: NewLocationService(profileRepo, skillRepo, locationIndex, geocoder),
		ReportService: NewReportService(reportRepo, userRepo, skillRepo,
			ratingService, reviewService, karmaService, emailProvider),
		VerificationService: NewVerificationService(verificationRepo, userRepo, karmaService, emailProvider),

		RefreshTokenRepo: refreshTokenRepo,
		EmailProvider:    emailProvider,
	}
}
