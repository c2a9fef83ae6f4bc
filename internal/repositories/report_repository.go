package repositories

import (
	"errors"
	"time"

	"favorx_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrReportAlreadyExists = errors.New("you have already reported this content")
)

// ReportCounts is cached per reported user for quick moderation triage.
type ReportCounts struct {
	Total   int64
	Pending int64
}

type ReportRepository interface {
	Create(report *models.Report) error
	FindByID(id string) (*models.Report, error)
	HasPendingByReporter(reporterID, reportType, targetID string) (bool, error)
	FindByStatusWithPagination(status string, page, pageSize int) ([]models.Report, int64, error)
	Resolve(id, moderatorID, status string) error
	CreateModerationAction(action *models.ModerationAction) error
	CountsForUser(reportedID string) (*ReportCounts, error)

	// TargetExists validates that the reported content exists and belongs
	// to the reported user.
	TargetExists(reportType, targetID, reportedID string) (bool, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *reportRepository) FindByID(id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) HasPendingByReporter(reporterID, reportType, targetID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Report{}).
		Where("reporter_id = ? AND type = ? AND target_id = ? AND status = ?",
			reporterID, reportType, targetID, models.ReportStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *reportRepository) FindByStatusWithPagination(status string, page, pageSize int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := r.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepository) Resolve(id, moderatorID, status string) error {
	now := time.Now()
	result := r.db.Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": moderatorID,
			"resolved_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *reportRepository) CreateModerationAction(action *models.ModerationAction) error {
	return r.db.Create(action).Error
}

func (r *reportRepository) CountsForUser(reportedID string) (*ReportCounts, error) {
	var counts ReportCounts
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN status = ? THEN 1 END) AS pending
		FROM reports
		WHERE reported_id = ?`, models.ReportStatusPending, reportedID).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *reportRepository) TargetExists(reportType, targetID, reportedID string) (bool, error) {
	var count int64
	var err error

	switch reportType {
	case models.ReportTypeUser:
		err = r.db.Model(&models.User{}).Where("id = ?", targetID).Count(&count).Error
	case models.ReportTypeSkill:
		err = r.db.Model(&models.Skill{}).
			Where("id = ? AND user_id = ?", targetID, reportedID).Count(&count).Error
	case models.ReportTypeReview:
		err = r.db.Model(&models.Review{}).
			Where("id = ? AND reviewer_id = ?", targetID, reportedID).Count(&count).Error
	case models.ReportTypeRating:
		err = r.db.Model(&models.Rating{}).
			Where("id = ? AND rater_id = ?", targetID, reportedID).Count(&count).Error
	default:
		return false, nil
	}

	if err != nil {
		return false, err
	}
	return count > 0, nil
}
