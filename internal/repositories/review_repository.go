package repositories

import (
	"errors"

	"favorx_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("you have already reviewed this skill")
)

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByID(id string) (*models.Review, error)
	FindByTriple(reviewerID, reviewedID, skillID string) (*models.Review, error)
	FindReceivedWithPagination(reviewedID string, page, pageSize int) ([]models.Review, int64, error)
	SetVerified(id string) error
	Delete(id string) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) FindByID(id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByTriple(reviewerID, reviewedID, skillID string) (*models.Review, error) {
	var review models.Review
	err := r.db.
		Where("reviewer_id = ? AND reviewed_id = ? AND skill_id = ?", reviewerID, reviewedID, skillID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindReceivedWithPagination(reviewedID string, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	base := r.db.Model(&models.Review{}).Where("reviewed_id = ?", reviewedID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.
		Preload("Reviewer").
		Preload("Skill").
		Where("reviewed_id = ?", reviewedID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) SetVerified(id string) error {
	result := r.db.Model(&models.Review{}).
		Where("id = ?", id).
		Update("is_verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(id string) error {
	result := r.db.Delete(&models.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
