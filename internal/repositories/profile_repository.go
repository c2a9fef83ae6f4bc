package repositories

import (
	"errors"

	"favorx_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileCoordinates is the slim row the geo index warm-up streams.
type ProfileCoordinates struct {
	UserID    string
	Latitude  float64
	Longitude float64
}

type ProfileRepository interface {
	Create(profile *models.Profile) error
	FindByUserID(userID string) (*models.Profile, error)
	Update(profile *models.Profile) error
	UpdateLocation(userID, location string, lat, lng float64, geohash string) error
	ListWithCoordinates() ([]ProfileCoordinates, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *profileRepository) FindByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) UpdateLocation(userID, location string, lat, lng float64, geohash string) error {
	result := r.db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"location":  location,
			"latitude":  lat,
			"longitude": lng,
			"geohash":   geohash,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) ListWithCoordinates() ([]ProfileCoordinates, error) {
	var rows []ProfileCoordinates
	err := r.db.Model(&models.Profile{}).
		Select("user_id", "latitude", "longitude").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&rows).Error
	return rows, err
}
