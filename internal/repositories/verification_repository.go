package repositories

import (
	"errors"
	"time"

	"favorx_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrVerificationNotFound = errors.New("verification request not found")
	ErrVerificationPending  = errors.New("a verification request is already pending")
)

type VerificationRepository interface {
	Create(verification *models.TrustVerification) error
	FindByID(id string) (*models.TrustVerification, error)
	HasPending(userID, verificationType string) (bool, error)
	FindByUser(userID string) ([]models.TrustVerification, error)
	Approve(id string, verifiedAt time.Time) (*models.TrustVerification, error)
	Reject(id, reason string) (*models.TrustVerification, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(verification *models.TrustVerification) error {
	return r.db.Create(verification).Error
}

func (r *verificationRepository) FindByID(id string) (*models.TrustVerification, error) {
	var verification models.TrustVerification
	if err := r.db.First(&verification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &verification, nil
}

func (r *verificationRepository) HasPending(userID, verificationType string) (bool, error) {
	var count int64
	err := r.db.Model(&models.TrustVerification{}).
		Where("user_id = ? AND type = ? AND status = ?",
			userID, verificationType, models.VerificationStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *verificationRepository) FindByUser(userID string) ([]models.TrustVerification, error) {
	var verifications []models.TrustVerification
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&verifications).Error
	return verifications, err
}

func (r *verificationRepository) Approve(id string, verifiedAt time.Time) (*models.TrustVerification, error) {
	verification, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	err = r.db.Model(verification).
		Updates(map[string]interface{}{
			"status":      models.VerificationStatusApproved,
			"verified_at": verifiedAt,
		}).Error
	if err != nil {
		return nil, err
	}
	return verification, nil
}

func (r *verificationRepository) Reject(id, reason string) (*models.TrustVerification, error) {
	verification, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	err = r.db.Model(verification).
		Updates(map[string]interface{}{
			"status":           models.VerificationStatusRejected,
			"rejection_reason": reason,
		}).Error
	if err != nil {
		return nil, err
	}
	return verification, nil
}
