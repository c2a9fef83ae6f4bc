package services

import (
	"context"
	"testing"
	"time"

	"favorx_backend/internal/email"
	"favorx_backend/internal/models"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"
	"favorx_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type stubReportRepo struct {
	repositories.ReportRepository

	reports map[string]*models.Report
	created []*models.Report
	actions []*models.ModerationAction

	resolvedStatus map[string]string

	targetExists      bool
	pendingByReporter bool
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{
		reports:        map[string]*models.Report{},
		resolvedStatus: map[string]string{},
		targetExists:   true,
	}
}

func (f *stubReportRepo) Create(report *models.Report) error {
	report.ID = "report-" + report.TargetID
	f.created = append(f.created, report)
	f.reports[report.ID] = report
	return nil
}

func (f *stubReportRepo) FindByID(id string) (*models.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, repositories.ErrReportNotFound
	}
	return r, nil
}

func (f *stubReportRepo) HasPendingByReporter(reporterID, reportType, targetID string) (bool, error) {
	return f.pendingByReporter, nil
}

func (f *stubReportRepo) Resolve(id, moderatorID, status string) error {
	f.resolvedStatus[id] = status
	return nil
}

func (f *stubReportRepo) CreateModerationAction(action *models.ModerationAction) error {
	action.ID = "action-1"
	f.actions = append(f.actions, action)
	return nil
}

func (f *stubReportRepo) TargetExists(reportType, targetID, reportedID string) (bool, error) {
	return f.targetExists, nil
}

type stubRatingService struct {
	RatingService
	deleted []string
}

func (f *stubRatingService) DeleteRating(_ context.Context, ratingID string) error {
	f.deleted = append(f.deleted, ratingID)
	return nil
}

type stubReviewService struct {
	ReviewService
	deleted []string
}

func (f *stubReviewService) DeleteReview(_ context.Context, reviewID string) error {
	f.deleted = append(f.deleted, reviewID)
	return nil
}

type stubKarmaService struct {
	KarmaService
	invalidated []string
}

func (f *stubKarmaService) InvalidateUserKarma(_ context.Context, userID string) error {
	f.invalidated = append(f.invalidated, userID)
	return nil
}

// -------- fixture --------

type moderationFixture struct {
	reports *stubReportRepo
	users   *stubUserRepo
	skills  *stubSkillRepo
	ratings *stubRatingService
	reviews *stubReviewService
	karma   *stubKarmaService
	mail    *email.MockProvider
	svc     ReportService
}

func newModerationFixture(t *testing.T) *moderationFixture {
	t.Helper()
	setTestConfig(t)
	f := &moderationFixture{
		reports: newStubReportRepo(),
		users: &stubUserRepo{usersByID: map[string]*models.User{
			"bad-actor": {Username: "grim", Email: "grim@example.com"},
		}},
		skills:  &stubSkillRepo{},
		ratings: &stubRatingService{},
		reviews: &stubReviewService{},
		karma:   &stubKarmaService{},
		mail:    email.NewMockProvider(),
	}
	f.svc = NewReportService(f.reports, f.users, f.skills, f.ratings, f.reviews, f.karma, f.mail)
	return f
}

func (f *moderationFixture) seedPendingReport(reportType, targetID string) *models.Report {
	report := &models.Report{
		ReporterID: "witness",
		ReportedID: "bad-actor",
		Type:       reportType,
		TargetID:   targetID,
		Reason:     "spam",
		Status:     models.ReportStatusPending,
	}
	report.ID = "r1"
	f.reports.reports["r1"] = report
	return report
}

// -------- tests --------

func TestCreateReportRejectsSelfReport(t *testing.T) {
	f := newModerationFixture(t)

	_, err := f.svc.CreateReport("witness", &dto.CreateReportRequest{
		ReportedID: "witness",
		Type:       models.ReportTypeUser,
		TargetID:   "witness",
		Reason:     "spam",
	})
	assert.ErrorIs(t, err, ErrSelfReportNotAllowed)
	assert.Empty(t, f.reports.created)
}

func TestCreateReportRejectsMissingTarget(t *testing.T) {
	f := newModerationFixture(t)
	f.reports.targetExists = false

	_, err := f.svc.CreateReport("witness", &dto.CreateReportRequest{
		ReportedID: "bad-actor",
		Type:       models.ReportTypeSkill,
		TargetID:   "ghost-skill",
		Reason:     "scam",
	})
	assert.ErrorIs(t, err, ErrReportTargetMissing)
}

func TestCreateReportRejectsDuplicate(t *testing.T) {
	f := newModerationFixture(t)
	f.reports.pendingByReporter = true

	_, err := f.svc.CreateReport("witness", &dto.CreateReportRequest{
		ReportedID: "bad-actor",
		Type:       models.ReportTypeSkill,
		TargetID:   "s1",
		Reason:     "spam",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
}

func TestCreateReportStartsPending(t *testing.T) {
	f := newModerationFixture(t)

	resp, err := f.svc.CreateReport("witness", &dto.CreateReportRequest{
		ReportedID:  "bad-actor",
		Type:        models.ReportTypeSkill,
		TargetID:    "s1",
		Reason:      "spam",
		Description: "keeps reposting the same listing",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, resp.Status)
	require.Len(t, f.reports.created, 1)
}

func TestResolveReportSuspension(t *testing.T) {
	f := newModerationFixture(t)
	f.seedPendingReport(models.ReportTypeUser, "bad-actor")

	hours := 48
	action, err := f.svc.ResolveReport(context.Background(), "mod-1", "r1", &dto.ResolveReportRequest{
		ActionType: models.ModerationActionSuspension,
		Reason:     "repeated spam listings",
		Duration:   &hours,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ModerationActionSuspension, action.ActionType)

	until, ok := f.users.suspendedUntil["bad-actor"]
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), until, time.Minute)

	assert.Equal(t, models.ReportStatusResolved, f.reports.resolvedStatus["r1"])
	require.Len(t, f.reports.actions, 1)
	assert.Equal(t, "mod-1", f.reports.actions[0].ModeratorID)

	// The reported user gets a moderation notice.
	require.Equal(t, 1, f.mail.SentCount())
	assert.Equal(t, "grim@example.com", f.mail.Sent[0].To)
}

func TestResolveReportSuspensionDefaultsTo24Hours(t *testing.T) {
	f := newModerationFixture(t)
	f.seedPendingReport(models.ReportTypeUser, "bad-actor")

	_, err := f.svc.ResolveReport(context.Background(), "mod-1", "r1", &dto.ResolveReportRequest{
		ActionType: models.ModerationActionSuspension,
		Reason:     "first offence",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), f.users.suspendedUntil["bad-actor"], time.Minute)
}

func TestResolveReportBan(t *testing.T) {
	f := newModerationFixture(t)
	f.seedPendingReport(models.ReportTypeUser, "bad-actor")

	_, err := f.svc.ResolveReport(context.Background(), "mod-1", "r1", &dto.ResolveReportRequest{
		ActionType: models.ModerationActionBan,
		Reason:     "fraudulent favors",
	})
	require.NoError(t, err)
	assert.Contains(t, f.users.banned, "bad-actor")
	assert.Equal(t, models.ReportStatusResolved, f.reports.resolvedStatus["r1"])
}

func TestResolveReportRemovesSkill(t *testing.T) {
	f := newModerationFixture(t)
	f.seedPendingReport(models.ReportTypeSkill, "s1")

	_, err := f.svc.ResolveReport(context.Background(), "mod-1", "r1", &dto.ResolveReportRequest{
		ActionType: models.ModerationActionContentRemoval,
		Reason:     "scam listing",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, f.skills.deleted)
	assert.Equal(t, []string{"bad-actor"}, f.karma.invalidated)
}

func TestResolveReportRemovesRatingAndReview(t *testing.T) {
	f := newModerationFixture(t)
	f.seedPendingReport(models.ReportTypeRating, "rating-1")

	_, err := f.svc.ResolveReport(context.Background(), "mod-1", "r1", &dto.ResolveReportRequest{
		ActionType: models.ModerationActionContentRemoval,
		Reason:     "abusive review text",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"rating-1"}, f.ratings.deleted)

	f2 := newModerationFixture(t)
	f2.seedPendingReport(models.ReportTypeReview, "review-1")
	_, err = f2.svc.ResolveReport(context.Background(), "mod-1", "r1", &dto.ResolveReportRequest{
		ActionType: models.ModerationActionContentRemoval,
		Reason:     "abusive review text",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"review-1"}, f2.reviews.deleted)
}

func TestResolveReportContentRemovalNeedsContent(t *testing.T) {
	f := newModerationFixture(t)
	f.seedPendingReport(models.ReportTypeUser, "bad-actor")

	_, err := f.svc.ResolveReport(context.Background(), "mod-1", "r1", &dto.ResolveReportRequest{
		ActionType: models.ModerationActionContentRemoval,
		Reason:     "remove everything",
	})
	require.Error(t, err)
	assert.Empty(t, f.reports.resolvedStatus)
}

func TestResolveReportOnlyOnce(t *testing.T) {
	f := newModerationFixture(t)
	report := f.seedPendingReport(models.ReportTypeUser, "bad-actor")
	report.Status = models.ReportStatusResolved

	_, err := f.svc.ResolveReport(context.Background(), "mod-1", "r1", &dto.ResolveReportRequest{
		ActionType: models.ModerationActionWarning,
		Reason:     "already handled",
	})
	assert.ErrorIs(t, err, ErrReportNotPending)
}

func TestRejectReport(t *testing.T) {
	f := newModerationFixture(t)
	f.seedPendingReport(models.ReportTypeUser, "bad-actor")

	require.NoError(t, f.svc.RejectReport("r1", "mod-1"))
	assert.Equal(t, models.ReportStatusRejected, f.reports.resolvedStatus["r1"])
	// Dismissal takes no action against the reported user.
	assert.Empty(t, f.users.banned)
	assert.Empty(t, f.users.suspendedUntil)
	assert.Zero(t, f.mail.SentCount())
}

func TestRejectReportNotFound(t *testing.T) {
	f := newModerationFixture(t)

	err := f.svc.RejectReport("ghost", "mod-1")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
