package repositories

import (
	"errors"
	"time"

	"favorx_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRatingNotFound      = errors.New("rating not found")
	ErrRatingAlreadyExists = errors.New("you have already rated this skill")
)

// RatingSample is the minimal row the decay computation needs.
type RatingSample struct {
	Rating    int
	CreatedAt time.Time
}

// RatingStats carries the aggregate the consistency sub-score reads.
// Stddev is the sample standard deviation; postgres returns NULL for a
// single row, surfaced here as nil.
type RatingStats struct {
	Avg    float64
	Stddev *float64
}

// FavorOutcomes counts rated favors on a user's own listings.
type FavorOutcomes struct {
	Total      int64
	Successful int64 // rating >= 4
}

type RatingRepository interface {
	Create(rating *models.Rating) error
	FindByID(id string) (*models.Rating, error)
	FindByTriple(raterID, ratedID, skillID string) (*models.Rating, error)
	FindReceivedWithPagination(ratedID string, page, pageSize int) ([]models.Rating, int64, error)
	Delete(id string) error

	// Karma feeds. Each returns empty/zero aggregates for unknown users;
	// "no history" routing is the karma engine's job, not the store's.
	ListRatingsReceived(ratedID string) ([]RatingSample, error)
	CountFavorOutcomes(ownerID string) (*FavorOutcomes, error)
	Stats(ratedID string) (*RatingStats, error)
	CountReceivedSince(ratedID string, since time.Time) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(rating *models.Rating) error {
	return r.db.Create(rating).Error
}

func (r *ratingRepository) FindByID(id string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.First(&rating, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindByTriple(raterID, ratedID, skillID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.
		Where("rater_id = ? AND rated_id = ? AND skill_id = ?", raterID, ratedID, skillID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindReceivedWithPagination(ratedID string, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	base := r.db.Model(&models.Rating{}).Where("rated_id = ?", ratedID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.
		Preload("Rater").
		Preload("Skill").
		Where("rated_id = ?", ratedID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

func (r *ratingRepository) Delete(id string) error {
	result := r.db.Delete(&models.Rating{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

// ---------------- Karma feeds ----------------

func (r *ratingRepository) ListRatingsReceived(ratedID string) ([]RatingSample, error) {
	var samples []RatingSample
	err := r.db.Model(&models.Rating{}).
		Select("rating", "created_at").
		Where("rated_id = ?", ratedID).
		Order("created_at DESC").
		Find(&samples).Error
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (r *ratingRepository) CountFavorOutcomes(ownerID string) (*FavorOutcomes, error) {
	var outcomes FavorOutcomes
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN r.rating >= 4 THEN 1 END) AS successful
		FROM ratings r
		JOIN skills s ON s.id = r.skill_id
		WHERE s.user_id = ?`, ownerID).
		Scan(&outcomes).Error
	if err != nil {
		return nil, err
	}
	return &outcomes, nil
}

func (r *ratingRepository) Stats(ratedID string) (*RatingStats, error) {
	var row struct {
		Avg    *float64
		Stddev *float64
	}
	err := r.db.Raw(`
		SELECT AVG(rating) AS avg, STDDEV(rating) AS stddev
		FROM ratings
		WHERE rated_id = ?`, ratedID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Avg == nil {
		// No ratings at all
		return nil, nil
	}
	return &RatingStats{Avg: *row.Avg, Stddev: row.Stddev}, nil
}

func (r *ratingRepository) CountReceivedSince(ratedID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Rating{}).
		Where("rated_id = ? AND created_at > ?", ratedID, since).
		Count(&count).Error
	return count, err
}
