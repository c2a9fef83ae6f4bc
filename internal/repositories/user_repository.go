package repositories

import (
	"errors"
	"time"

	"favorx_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByVerificationToken(token string) (*models.User, error)

	// UpdateKarma is an unconditional overwrite; concurrent recomputes of
	// the same user resolve to whichever wrote last.
	UpdateKarma(userID string, score float64) error

	UpdatePassword(userID, passwordHash string) error
	SetVerified(userID string, verified bool) error
	SetVerificationToken(userID, token string) error
	Suspend(userID string, until time.Time) error
	Ban(userID string) error

	// FindRecentlyActiveIDs returns users with ratings received or skills
	// created after the cutoff; the karma refresh worker walks this set.
	FindRecentlyActiveIDs(since time.Time) ([]string, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Profile").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByVerificationToken(token string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "verification_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateKarma(userID string, score float64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("karma_score", score).Error
}

func (r *userRepository) UpdatePassword(userID, passwordHash string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) SetVerified(userID string, verified bool) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_verified":        verified,
			"verification_token": "",
		}).Error
}

func (r *userRepository) SetVerificationToken(userID, token string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("verification_token", token).Error
}

func (r *userRepository) Suspend(userID string, until time.Time) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_suspended":   true,
			"suspension_end": until,
		}).Error
}

func (r *userRepository) Ban(userID string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_banned", true).Error
}

func (r *userRepository) FindRecentlyActiveIDs(since time.Time) ([]string, error) {
	var ids []string
	err := r.db.Raw(`
		SELECT DISTINCT user_id FROM (
			SELECT rated_id AS user_id FROM ratings WHERE created_at > ?
			UNION ALL
			SELECT user_id FROM skills WHERE created_at > ?
			UNION ALL
			SELECT reviewed_id AS user_id FROM reviews WHERE created_at > ?
		) recent`, since, since, since).
		Scan(&ids).Error
	return ids, err
}
