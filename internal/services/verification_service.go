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

var ErrVerificationNotPending = apperrors.ErrInvalidOperation("verification", "Verification request has already been decided")

type VerificationService interface {
	SubmitVerification(userID string, req *dto.SubmitVerificationRequest) (*dto.VerificationResponse, error)
	GetUserVerifications(userID string) (*dto.VerificationListResponse, error)
	ApproveVerification(ctx context.Context, moderatorID, verificationID string) (*dto.VerificationResponse, error)
	RejectVerification(ctx context.Context, moderatorID, verificationID string, req *dto.RejectVerificationRequest) (*dto.VerificationResponse, error)
}

type verificationService struct {
	verificationRepo repositories.VerificationRepository
	userRepo         repositories.UserRepository
	karmaService     KarmaService
	emailProvider    email.Provider
	now              func() time.Time
}

func NewVerificationService(
	verificationRepo repositories.VerificationRepository,
	userRepo repositories.UserRepository,
	karmaService KarmaService,
	emailProvider email.Provider,
) VerificationService {
	return &verificationService{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		karmaService:     karmaService,
		emailProvider:    emailProvider,
		now:              time.Now,
	}
}

func (s *verificationService) SubmitVerification(userID string, req *dto.SubmitVerificationRequest) (*dto.VerificationResponse, error) {
	pending, err := s.verificationRepo.HasPending(userID, req.Type)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrVerificationPending,
			"verification", "A verification request of this type is already pending")
	}

	verification := &models.TrustVerification{
		UserID:           userID,
		Type:             req.Type,
		VerificationData: req.VerificationData,
		Status:           models.VerificationStatusPending,
	}
	if err := s.verificationRepo.Create(verification); err != nil {
		return nil, fmt.Errorf("create verification request: %w", err)
	}
	return verificationToResponse(verification), nil
}

func (s *verificationService) GetUserVerifications(userID string) (*dto.VerificationListResponse, error) {
	verifications, err := s.verificationRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.VerificationResponse, 0, len(verifications))
	for i := range verifications {
		responses = append(responses, verificationToResponse(&verifications[i]))
	}
	return &dto.VerificationListResponse{
		Verifications: responses,
		Total:         len(responses),
	}, nil
}

// ApproveVerification grants the trust badge: the request is marked
// approved, the user row flips to verified and their karma is refreshed.
func (s *verificationService) ApproveVerification(ctx context.Context, moderatorID, verificationID string) (*dto.VerificationResponse, error) {
	verification, err := s.pendingVerification(verificationID)
	if err != nil {
		return nil, err
	}

	decidedAt := s.now()
	verification, err = s.verificationRepo.Approve(verificationID, decidedAt)
	if err != nil {
		return nil, fmt.Errorf("approve verification %s: %w", verificationID, err)
	}
	verification.Status = models.VerificationStatusApproved
	verification.VerifiedAt = &decidedAt

	if err := s.userRepo.SetVerified(verification.UserID, true); err != nil {
		return nil, fmt.Errorf("mark user %s verified: %w", verification.UserID, err)
	}

	if _, err := s.karmaService.UpdateUserKarma(ctx, verification.UserID); err != nil {
		logger.CtxWithError(ctx, "karma refresh after verification failed", err,
			"user_id", verification.UserID)
	}

	logger.CtxInfo(ctx, "verification approved",
		"verification_id", verificationID, "moderator_id", moderatorID)
	s.notifyDecision(ctx, verification, true, "")

	return verificationToResponse(verification), nil
}

func (s *verificationService) RejectVerification(ctx context.Context, moderatorID, verificationID string, req *dto.RejectVerificationRequest) (*dto.VerificationResponse, error) {
	verification, err := s.pendingVerification(verificationID)
	if err != nil {
		return nil, err
	}

	verification, err = s.verificationRepo.Reject(verificationID, req.Reason)
	if err != nil {
		return nil, fmt.Errorf("reject verification %s: %w", verificationID, err)
	}
	verification.Status = models.VerificationStatusRejected
	verification.RejectionReason = req.Reason

	logger.CtxInfo(ctx, "verification rejected",
		"verification_id", verificationID, "moderator_id", moderatorID)
	s.notifyDecision(ctx, verification, false, req.Reason)

	return verificationToResponse(verification), nil
}

func (s *verificationService) pendingVerification(verificationID string) (*models.TrustVerification, error) {
	verification, err := s.verificationRepo.FindByID(verificationID)
	if errors.Is(err, repositories.ErrVerificationNotFound) {
		return nil, apperrors.ErrNotFound(err, "verification", "Verification request not found")
	}
	if err != nil {
		return nil, err
	}
	if verification.Status != models.VerificationStatusPending {
		return nil, ErrVerificationNotPending
	}
	return verification, nil
}

func (s *verificationService) notifyDecision(ctx context.Context, verification *models.TrustVerification, approved bool, reason string) {
	user, err := s.userRepo.FindByID(verification.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "cannot load user for verification notice", err,
			"user_id", verification.UserID)
		return
	}
	err = s.emailProvider.SendVerificationDecision(user.Email, user.Username,
		verification.Type, approved, reason)
	if err != nil {
		logger.CtxWithError(ctx, "verification decision email failed", err,
			"user_id", verification.UserID)
	}
}

func verificationToResponse(verification *models.TrustVerification) *dto.VerificationResponse {
	return &dto.VerificationResponse{
		ID:              verification.ID,
		UserID:          verification.UserID,
		Type:            verification.Type,
		Status:          verification.Status,
		RejectionReason: verification.RejectionReason,
		VerifiedAt:      verification.VerifiedAt,
		CreatedAt:       verification.CreatedAt,
	}
}
