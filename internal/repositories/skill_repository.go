package repositories

import (
	"errors"
	"time"

	"favorx_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSkillNotFound = errors.New("skill not found")

// SkillSearchCriteria filters the public skill listing.
type SkillSearchCriteria struct {
	Category   string
	IsOffering *bool
	Search     string
	// Coordinate filter: set when free-text location geocoding succeeded.
	Near     *SkillSearchPoint
	SortBy   string // created_at | effort_time | karma_score
	SortDesc bool
	Page     int
	PageSize int
}

type SkillSearchPoint struct {
	Latitude   float64
	Longitude  float64
	DistanceKm float64
}

// SkillWithOwner is a skill row joined with its owner's identity, karma and
// coordinates, as the matching enrichment query returns it.
type SkillWithOwner struct {
	models.Skill
	Username   string
	KarmaScore float64
	Location   string
	Latitude   *float64
	Longitude  *float64
}

type SkillRepository interface {
	Create(skill *models.Skill) error
	FindByID(id string) (*models.Skill, error)
	FindByIDAndOwner(id, ownerID string) (*models.Skill, error)
	FindByUser(userID string) ([]models.Skill, error)
	Update(skill *models.Skill) error
	Delete(id string) error

	Search(criteria SkillSearchCriteria) ([]SkillWithOwner, int64, error)

	// FindByUsers is the relational half of the proximity matcher: skills
	// belonging to the candidate set, filtered by karma floor and optional
	// category, enriched with owner data for exact distance computation.
	FindByUsers(userIDs []string, category string, minKarma float64) ([]SkillWithOwner, error)

	CountCreatedSince(userID string, since time.Time) (int64, error)
}

type skillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(skill *models.Skill) error {
	return r.db.Create(skill).Error
}

func (r *skillRepository) FindByID(id string) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.Preload("User").First(&skill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepository) FindByIDAndOwner(id, ownerID string) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.Where("id = ? AND user_id = ?", id, ownerID).First(&skill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepository) FindByUser(userID string) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&skills).Error
	return skills, err
}

func (r *skillRepository) Update(skill *models.Skill) error {
	return r.db.Save(skill).Error
}

func (r *skillRepository) Delete(id string) error {
	result := r.db.Delete(&models.Skill{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

func (r *skillRepository) Search(criteria SkillSearchCriteria) ([]SkillWithOwner, int64, error) {
	query := r.db.Table("skills s").
		Select("s.*, u.username, u.karma_score, p.location, p.latitude, p.longitude").
		Joins("JOIN users u ON u.id = s.user_id").
		Joins("LEFT JOIN profiles p ON p.user_id = s.user_id")

	if criteria.Category != "" {
		query = query.Where("s.category = ?", criteria.Category)
	}
	if criteria.IsOffering != nil {
		query = query.Where("s.is_offering = ?", *criteria.IsOffering)
	}
	if criteria.Search != "" {
		pattern := "%" + criteria.Search + "%"
		query = query.Where("s.title ILIKE ? OR s.description ILIKE ?", pattern, pattern)
	}
	if criteria.Near != nil {
		query = query.Where(`
			p.latitude IS NOT NULL AND p.longitude IS NOT NULL
			AND earth_distance(
				ll_to_earth(?, ?),
				ll_to_earth(p.latitude, p.longitude)
			) / 1000 <= ?`,
			criteria.Near.Latitude, criteria.Near.Longitude, criteria.Near.DistanceKm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "ASC"
	if criteria.SortDesc {
		order = "DESC"
	}
	switch criteria.SortBy {
	case "effort_time":
		query = query.Order("s.effort_time " + order)
	case "karma_score":
		query = query.Order("u.karma_score " + order + ", s.created_at DESC")
	default:
		query = query.Order("s.created_at " + order)
	}

	var rows []SkillWithOwner
	err := query.
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *skillRepository) FindByUsers(userIDs []string, category string, minKarma float64) ([]SkillWithOwner, error) {
	query := r.db.Table("skills s").
		Select("s.*, u.username, u.karma_score, p.location, p.latitude, p.longitude").
		Joins("JOIN users u ON u.id = s.user_id").
		Joins("JOIN profiles p ON p.user_id = s.user_id").
		Where("s.user_id IN ?", userIDs).
		Where("u.karma_score >= ?", minKarma)

	if category != "" {
		query = query.Where("s.category = ?", category)
	}

	var rows []SkillWithOwner
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *skillRepository) CountCreatedSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Skill{}).
		Where("user_id = ? AND created_at > ?", userID, since).
		Count(&count).Error
	return count, err
}
