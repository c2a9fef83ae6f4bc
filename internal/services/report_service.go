package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"favorx_backend/internal/email"
	"favorx_backend/internal/logger"
	"favorx_backend/internal/models"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"
	"favorx_backend/pkg/apperrors"
)

var (
	ErrSelfReportNotAllowed = apperrors.ErrInvalidOperation("moderation", "You cannot report yourself")
	ErrReportNotPending     = apperrors.ErrInvalidOperation("moderation", "Report has already been handled")
	ErrReportTargetMissing  = apperrors.ErrInvalidOperation("moderation", "Reported content does not exist")
)

type ReportService interface {
	CreateReport(reporterID string, req *dto.CreateReportRequest) (*dto.ReportResponse, error)
	ListReports(criteria *dto.ReportListCriteria) (*dto.ReportListResponse, error)
	ResolveReport(ctx context.Context, moderatorID, reportID string, req *dto.ResolveReportRequest) (*dto.ModerationActionResponse, error)
	RejectReport(reportID, moderatorID string) error
}

type reportService struct {
	reportRepo    repositories.ReportRepository
	userRepo      repositories.UserRepository
	skillRepo     repositories.SkillRepository
	ratingService RatingService
	reviewService ReviewService
	karmaService  KarmaService
	emailProvider email.Provider
	now           func() time.Time
}

func NewReportService(
	reportRepo repositories.ReportRepository,
	userRepo repositories.UserRepository,
	skillRepo repositories.SkillRepository,
	ratingService RatingService,
	reviewService ReviewService,
	karmaService KarmaService,
	emailProvider email.Provider,
) ReportService {
	return &reportService{
		reportRepo:    reportRepo,
		userRepo:      userRepo,
		skillRepo:     skillRepo,
		ratingService: ratingService,
		reviewService: reviewService,
		karmaService:  karmaService,
		emailProvider: emailProvider,
		now:           time.Now,
	}
}

// ---------------- Reporting ----------------

func (s *reportService) CreateReport(reporterID string, req *dto.CreateReportRequest) (*dto.ReportResponse, error) {
	if reporterID == req.ReportedID {
		return nil, ErrSelfReportNotAllowed
	}

	exists, err := s.reportRepo.TargetExists(req.Type, req.TargetID, req.ReportedID)
	if err != nil {
		return nil, fmt.Errorf("validate report target: %w", err)
	}
	if !exists {
		return nil, ErrReportTargetMissing
	}

	pending, err := s.reportRepo.HasPendingByReporter(reporterID, req.Type, req.TargetID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrReportAlreadyExists,
			"moderation", "You have already reported this content")
	}

	report := &models.Report{
		ReporterID:  reporterID,
		ReportedID:  req.ReportedID,
		Type:        req.Type,
		TargetID:    req.TargetID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return reportToResponse(report), nil
}

func (s *reportService) ListReports(criteria *dto.ReportListCriteria) (*dto.ReportListResponse, error) {
	status := criteria.Status
	if status == "" {
		status = models.ReportStatusPending
	}
	page := criteria.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	reports, total, err := s.reportRepo.FindByStatusWithPagination(status, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	responses := make([]*dto.ReportResponse, 0, len(reports))
	for i := range reports {
		responses = append(responses, reportToResponse(&reports[i]))
	}
	return &dto.ReportListResponse{
		Reports:    responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ---------------- Moderation ----------------

// ResolveReport applies a moderation action to a pending report: a recorded
// warning, a timed suspension, a permanent ban, or removal of the reported
// content. The reported user is notified by email, best-effort.
func (s *reportService) ResolveReport(ctx context.Context, moderatorID, reportID string, req *dto.ResolveReportRequest) (*dto.ModerationActionResponse, error) {
	report, err := s.reportRepo.FindByID(reportID)
	if errors.Is(err, repositories.ErrReportNotFound) {
		return nil, apperrors.ErrNotFound(err, "moderation", "Report not found")
	}
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusPending {
		return nil, ErrReportNotPending
	}

	if err := s.applyAction(ctx, report, req); err != nil {
		return nil, err
	}

	action := &models.ModerationAction{
		ReportID:    reportID,
		ModeratorID: moderatorID,
		ActionType:  req.ActionType,
		Reason:      req.Reason,
		Duration:    req.Duration,
	}
	if err := s.reportRepo.CreateModerationAction(action); err != nil {
		return nil, fmt.Errorf("record moderation action: %w", err)
	}
	if err := s.reportRepo.Resolve(reportID, moderatorID, models.ReportStatusResolved); err != nil {
		return nil, fmt.Errorf("resolve report %s: %w", reportID, err)
	}

	s.notifyReported(ctx, report.ReportedID, req.ActionType, req.Reason)

	return &dto.ModerationActionResponse{
		ID:          action.ID,
		ReportID:    action.ReportID,
		ModeratorID: action.ModeratorID,
		ActionType:  action.ActionType,
		Reason:      action.Reason,
		Duration:    action.Duration,
		CreatedAt:   action.CreatedAt,
	}, nil
}

// RejectReport dismisses a pending report without action against the
// reported user.
func (s *reportService) RejectReport(reportID, moderatorID string) error {
	report, err := s.reportRepo.FindByID(reportID)
	if errors.Is(err, repositories.ErrReportNotFound) {
		return apperrors.ErrNotFound(err, "moderation", "Report not found")
	}
	if err != nil {
		return err
	}
	if report.Status != models.ReportStatusPending {
		return ErrReportNotPending
	}
	return s.reportRepo.Resolve(reportID, moderatorID, models.ReportStatusRejected)
}

func (s *reportService) applyAction(ctx context.Context, report *models.Report, req *dto.ResolveReportRequest) error {
	switch req.ActionType {
	case models.ModerationActionWarning:
		return nil

	case models.ModerationActionSuspension:
		hours := 24
		if req.Duration != nil {
			hours = *req.Duration
		}
		until := s.now().Add(time.Duration(hours) * time.Hour)
		return s.userRepo.Suspend(report.ReportedID, until)

	case models.ModerationActionBan:
		return s.userRepo.Ban(report.ReportedID)

	case models.ModerationActionContentRemoval:
		return s.removeContent(ctx, report)

	default:
		return apperrors.ErrInvalidOperation("moderation", "Unknown moderation action")
	}
}

func (s *reportService) removeContent(ctx context.Context, report *models.Report) error {
	switch report.Type {
	case models.ReportTypeSkill:
		if err := s.skillRepo.Delete(report.TargetID); err != nil &&
			!errors.Is(err, repositories.ErrSkillNotFound) {
			return err
		}
		if err := s.karmaService.InvalidateUserKarma(ctx, report.ReportedID); err != nil {
			logger.CtxWithError(ctx, "karma invalidate after content removal failed", err,
				"user_id", report.ReportedID)
		}
		return nil

	case models.ReportTypeRating:
		err := s.ratingService.DeleteRating(ctx, report.TargetID)
		if err != nil && !isNotFound(err) {
			return err
		}
		return nil

	case models.ReportTypeReview:
		err := s.reviewService.DeleteReview(ctx, report.TargetID)
		if err != nil && !isNotFound(err) {
			return err
		}
		return nil

	default:
		// A report against the user as a whole has no content to remove.
		return apperrors.ErrInvalidOperation("moderation",
			"Content removal does not apply to user reports")
	}
}

func (s *reportService) notifyReported(ctx context.Context, userID, action, reason string) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.CtxWithError(ctx, "cannot load reported user for notice", err, "user_id", userID)
		return
	}
	if err := s.emailProvider.SendModerationNotice(user.Email, user.Username, action, reason); err != nil {
		logger.CtxWithError(ctx, "moderation notice email failed", err, "user_id", userID)
	}
}

// ---------------- Helpers ----------------

func reportToResponse(report *models.Report) *dto.ReportResponse {
	resp := &dto.ReportResponse{
		ID:          report.ID,
		ReporterID:  report.ReporterID,
		ReportedID:  report.ReportedID,
		Type:        report.Type,
		TargetID:    report.TargetID,
		Reason:      report.Reason,
		Description: report.Description,
		Status:      report.Status,
		ResolvedAt:  report.ResolvedAt,
		CreatedAt:   report.CreatedAt,
	}
	if report.ResolvedBy != nil {
		resp.ResolvedBy = *report.ResolvedBy
	}
	return resp
}

func isNotFound(err error) bool {
	appErr, ok := apperrors.AsAppError(err)
	return ok && appErr.Code == apperrors.CodeNotFound
}
