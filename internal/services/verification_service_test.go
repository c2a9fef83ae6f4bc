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

type stubVerificationRepo struct {
	repositories.VerificationRepository

	verifications map[string]*models.TrustVerification
	created       []*models.TrustVerification
	pending       bool
}

func (f *stubVerificationRepo) Create(verification *models.TrustVerification) error {
	f.created = append(f.created, verification)
	return nil
}

func (f *stubVerificationRepo) FindByID(id string) (*models.TrustVerification, error) {
	v, ok := f.verifications[id]
	if !ok {
		return nil, repositories.ErrVerificationNotFound
	}
	return v, nil
}

func (f *stubVerificationRepo) HasPending(userID, verificationType string) (bool, error) {
	return f.pending, nil
}

func (f *stubVerificationRepo) Approve(id string, verifiedAt time.Time) (*models.TrustVerification, error) {
	v, err := f.FindByID(id)
	if err != nil {
		return nil, err
	}
	v.Status = models.VerificationStatusApproved
	v.VerifiedAt = &verifiedAt
	return v, nil
}

func (f *stubVerificationRepo) Reject(id, reason string) (*models.TrustVerification, error) {
	v, err := f.FindByID(id)
	if err != nil {
		return nil, err
	}
	v.Status = models.VerificationStatusRejected
	v.RejectionReason = reason
	return v, nil
}

type verificationFixture struct {
	verifications *stubVerificationRepo
	users         *stubUserRepo
	karma         *recordingKarmaService
	mail          *email.MockProvider
	svc           VerificationService
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()
	setTestConfig(t)

	applicant := &models.User{Email: "aida@example.com", Username: "aida"}
	applicant.ID = "applicant"

	f := &verificationFixture{
		verifications: &stubVerificationRepo{verifications: map[string]*models.TrustVerification{}},
		users:         &stubUserRepo{usersByID: map[string]*models.User{"applicant": applicant}},
		karma:         &recordingKarmaService{},
		mail:          email.NewMockProvider(),
	}
	f.svc = NewVerificationService(f.verifications, f.users, f.karma, f.mail)
	return f
}

func (f *verificationFixture) seedPending(id string) {
	v := &models.TrustVerification{
		UserID: "applicant",
		Type:   "id",
		Status: models.VerificationStatusPending,
	}
	v.ID = id
	f.verifications.verifications[id] = v
}

func TestApproveVerificationGrantsBadgeAndRefreshesKarma(t *testing.T) {
	f := newVerificationFixture(t)
	f.seedPending("v1")

	resp, err := f.svc.ApproveVerification(context.Background(), "mod-1", "v1")
	require.NoError(t, err)

	assert.Equal(t, models.VerificationStatusApproved, resp.Status)
	require.NotNil(t, resp.VerifiedAt)
	assert.True(t, f.users.usersByID["applicant"].IsVerified)
	assert.Equal(t, []string{"applicant"}, f.karma.updated)

	require.Len(t, f.mail.Sent, 1)
	assert.Equal(t, "aida@example.com", f.mail.Sent[0].To)
	assert.Equal(t, "verification_approved", f.mail.Sent[0].Subject)
}

func TestApproveVerificationOnlyOnce(t *testing.T) {
	f := newVerificationFixture(t)
	f.seedPending("v1")

	_, err := f.svc.ApproveVerification(context.Background(), "mod-1", "v1")
	require.NoError(t, err)

	_, err = f.svc.ApproveVerification(context.Background(), "mod-1", "v1")
	assert.ErrorIs(t, err, ErrVerificationNotPending)
	assert.Len(t, f.karma.updated, 1, "a decided request must not refresh karma again")
}

func TestRejectVerificationLeavesKarmaAlone(t *testing.T) {
	f := newVerificationFixture(t)
	f.seedPending("v1")

	resp, err := f.svc.RejectVerification(context.Background(), "mod-1", "v1",
		&dto.RejectVerificationRequest{Reason: "document unreadable"})
	require.NoError(t, err)

	assert.Equal(t, models.VerificationStatusRejected, resp.Status)
	assert.Equal(t, "document unreadable", resp.RejectionReason)
	assert.False(t, f.users.usersByID["applicant"].IsVerified)
	assert.Empty(t, f.karma.updated)

	require.Len(t, f.mail.Sent, 1)
	assert.Equal(t, "verification_rejected", f.mail.Sent[0].Subject)
}

func TestSubmitVerificationRejectsDuplicatePending(t *testing.T) {
	f := newVerificationFixture(t)
	f.verifications.pending = true

	_, err := f.svc.SubmitVerification("applicant", &dto.SubmitVerificationRequest{
		Type: "id", VerificationData: "doc-ref",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
	assert.Empty(t, f.verifications.created)
}
