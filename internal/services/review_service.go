package services

import (
	"context"
	"errors"
	"fmt"

	"favorx_backend/internal/logger"
	"favorx_backend/internal/models"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"
	"favorx_backend/pkg/apperrors"
)

var (
	ErrSelfReviewNotAllowed = apperrors.ErrInvalidOperation("reviews", "You cannot review yourself")
	ErrReviewSkillMismatch  = apperrors.ErrInvalidOperation("reviews", "Skill does not belong to the reviewed user")
)

type ReviewService interface {
	CreateReview(ctx context.Context, reviewerID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetUserReviews(reviewedID string, page, pageSize int) (*dto.ReviewListResponse, error)
	VerifyReview(ctx context.Context, moderatorID, reviewID string) error
	DeleteReview(ctx context.Context, reviewID string) error
}

type reviewService struct {
	reviewRepo   repositories.ReviewRepository
	ratingRepo   repositories.RatingRepository
	skillRepo    repositories.SkillRepository
	karmaService KarmaService
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	ratingRepo repositories.RatingRepository,
	skillRepo repositories.SkillRepository,
	karmaService KarmaService,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		ratingRepo:   ratingRepo,
		skillRepo:    skillRepo,
		karmaService: karmaService,
	}
}

// CreateReview stores a written review of a skill. A review backed by a
// rating on the same skill from the same author is marked verified, since
// the exchange demonstrably happened.
func (s *reviewService) CreateReview(ctx context.Context, reviewerID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if reviewerID == req.ReviewedID {
		return nil, ErrSelfReviewNotAllowed
	}

	skill, err := s.skillRepo.FindByID(req.SkillID)
	if errors.Is(err, repositories.ErrSkillNotFound) {
		return nil, apperrors.ErrNotFound(err, "reviews", "Skill not found")
	}
	if err != nil {
		return nil, err
	}
	if skill.UserID != req.ReviewedID {
		return nil, ErrReviewSkillMismatch
	}

	if _, err := s.reviewRepo.FindByTriple(reviewerID, req.ReviewedID, req.SkillID); err == nil {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrReviewAlreadyExists,
			"reviews", "You have already reviewed this skill")
	} else if !errors.Is(err, repositories.ErrReviewNotFound) {
		return nil, err
	}

	verified := false
	if _, err := s.ratingRepo.FindByTriple(reviewerID, req.ReviewedID, req.SkillID); err == nil {
		verified = true
	} else if !errors.Is(err, repositories.ErrRatingNotFound) {
		return nil, err
	}

	review := &models.Review{
		ReviewerID: reviewerID,
		ReviewedID: req.ReviewedID,
		SkillID:    req.SkillID,
		Title:      req.Title,
		Content:    req.Content,
		IsVerified: verified,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if _, err := s.karmaService.UpdateUserKarma(ctx, req.ReviewedID); err != nil {
		logger.CtxWithError(ctx, "karma refresh after review failed", err, "user_id", req.ReviewedID)
	}

	return reviewToResponse(review), nil
}

func (s *reviewService) GetUserReviews(reviewedID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	reviews, total, err := s.reviewRepo.FindReceivedWithPagination(reviewedID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list reviews for user %s: %w", reviewedID, err)
	}

	responses := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, reviewToResponse(&reviews[i]))
	}

	return &dto.ReviewListResponse{
		Reviews:    responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// VerifyReview lets a moderator mark a review verified when the exchange was
// confirmed out of band, e.g. during a report investigation.
func (s *reviewService) VerifyReview(ctx context.Context, moderatorID, reviewID string) error {
	if _, err := s.reviewRepo.FindByID(reviewID); err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return apperrors.ErrNotFound(err, "reviews", "Review not found")
		}
		return err
	}
	if err := s.reviewRepo.SetVerified(reviewID); err != nil {
		return fmt.Errorf("verify review %s: %w", reviewID, err)
	}
	logger.CtxInfo(ctx, "review verified", "review_id", reviewID, "moderator_id", moderatorID)
	return nil
}

// DeleteReview is the moderation path for removing abusive reviews.
func (s *reviewService) DeleteReview(ctx context.Context, reviewID string) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if errors.Is(err, repositories.ErrReviewNotFound) {
		return apperrors.ErrNotFound(err, "reviews", "Review not found")
	}
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return fmt.Errorf("delete review %s: %w", reviewID, err)
	}

	if err := s.karmaService.InvalidateUserKarma(ctx, review.ReviewedID); err != nil {
		logger.CtxWithError(ctx, "karma invalidate after review removal failed", err, "user_id", review.ReviewedID)
	}
	return nil
}

func reviewToResponse(review *models.Review) *dto.ReviewResponse {
	resp := &dto.ReviewResponse{
		ID:         review.ID,
		ReviewerID: review.ReviewerID,
		ReviewedID: review.ReviewedID,
		SkillID:    review.SkillID,
		Title:      review.Title,
		Content:    review.Content,
		IsVerified: review.IsVerified,
		CreatedAt:  review.CreatedAt,
	}
	if review.Reviewer.ID != "" {
		resp.Reviewer = &dto.RaterInfo{
			Username:   review.Reviewer.Username,
			KarmaScore: review.Reviewer.KarmaScore,
		}
	}
	if review.Skill.ID != "" {
		resp.Skill = &dto.SkillBriefInfo{
			Title:    review.Skill.Title,
			Category: review.Skill.Category,
		}
	}
	return resp
}
