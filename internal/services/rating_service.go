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
	ErrSelfRatingNotAllowed = apperrors.ErrInvalidOperation("ratings", "You cannot rate yourself")
	ErrRatingSkillMismatch  = apperrors.ErrInvalidOperation("ratings", "Skill does not belong to the rated user")
)

type RatingService interface {
	CreateRating(ctx context.Context, raterID string, req *dto.CreateRatingRequest) (*dto.RatingResponse, error)
	GetUserRatings(ratedID string, page, pageSize int) (*dto.RatingListResponse, error)
	DeleteRating(ctx context.Context, ratingID string) error
}

type ratingService struct {
	ratingRepo   repositories.RatingRepository
	skillRepo    repositories.SkillRepository
	userRepo     repositories.UserRepository
	karmaService KarmaService
}

func NewRatingService(
	ratingRepo repositories.RatingRepository,
	skillRepo repositories.SkillRepository,
	userRepo repositories.UserRepository,
	karmaService KarmaService,
) RatingService {
	return &ratingService{
		ratingRepo:   ratingRepo,
		skillRepo:    skillRepo,
		userRepo:     userRepo,
		karmaService: karmaService,
	}
}

// CreateRating records a 1-5 score against a skill's owner after a favor
// exchange, then recomputes the rated user's karma synchronously so reads
// right after see the new score.
func (s *ratingService) CreateRating(ctx context.Context, raterID string, req *dto.CreateRatingRequest) (*dto.RatingResponse, error) {
	if raterID == req.RatedID {
		return nil, ErrSelfRatingNotAllowed
	}

	skill, err := s.skillRepo.FindByID(req.SkillID)
	if errors.Is(err, repositories.ErrSkillNotFound) {
		return nil, apperrors.ErrNotFound(err, "ratings", "Skill not found")
	}
	if err != nil {
		return nil, err
	}
	if skill.UserID != req.RatedID {
		return nil, ErrRatingSkillMismatch
	}

	if _, err := s.ratingRepo.FindByTriple(raterID, req.RatedID, req.SkillID); err == nil {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrRatingAlreadyExists,
			"ratings", "You have already rated this skill")
	} else if !errors.Is(err, repositories.ErrRatingNotFound) {
		return nil, err
	}

	rating := &models.Rating{
		RaterID: raterID,
		RatedID: req.RatedID,
		SkillID: req.SkillID,
		Rating:  req.Rating,
		Review:  req.Review,
	}
	if err := s.ratingRepo.Create(rating); err != nil {
		return nil, fmt.Errorf("create rating: %w", err)
	}

	if _, err := s.karmaService.UpdateUserKarma(ctx, req.RatedID); err != nil {
		logger.CtxWithError(ctx, "karma refresh after rating failed", err, "user_id", req.RatedID)
	}

	return ratingToResponse(rating), nil
}

func (s *ratingService) GetUserRatings(ratedID string, page, pageSize int) (*dto.RatingListResponse, error) {
	if _, err := s.userRepo.FindByID(ratedID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "ratings", "User not found")
		}
		return nil, err
	}
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	ratings, total, err := s.ratingRepo.FindReceivedWithPagination(ratedID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list ratings for user %s: %w", ratedID, err)
	}

	responses := make([]*dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, ratingToResponse(&ratings[i]))
	}

	return &dto.RatingListResponse{
		Ratings:    responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// DeleteRating is the moderation path for removing abusive ratings. The
// rated user's karma is recomputed since a feeding event disappeared.
func (s *ratingService) DeleteRating(ctx context.Context, ratingID string) error {
	rating, err := s.ratingRepo.FindByID(ratingID)
	if errors.Is(err, repositories.ErrRatingNotFound) {
		return apperrors.ErrNotFound(err, "ratings", "Rating not found")
	}
	if err != nil {
		return err
	}

	if err := s.ratingRepo.Delete(ratingID); err != nil {
		return fmt.Errorf("delete rating %s: %w", ratingID, err)
	}

	if _, err := s.karmaService.UpdateUserKarma(ctx, rating.RatedID); err != nil {
		logger.CtxWithError(ctx, "karma refresh after rating removal failed", err, "user_id", rating.RatedID)
	}
	return nil
}

func ratingToResponse(rating *models.Rating) *dto.RatingResponse {
	resp := &dto.RatingResponse{
		ID:        rating.ID,
		RaterID:   rating.RaterID,
		RatedID:   rating.RatedID,
		SkillID:   rating.SkillID,
		Rating:    rating.Rating,
		Review:    rating.Review,
		CreatedAt: rating.CreatedAt,
	}
	if rating.Rater.ID != "" {
		resp.Rater = &dto.RaterInfo{
			Username:   rating.Rater.Username,
			KarmaScore: rating.Rater.KarmaScore,
		}
	}
	if rating.Skill.ID != "" {
		resp.Skill = &dto.SkillBriefInfo{
			Title:    rating.Skill.Title,
			Category: rating.Skill.Category,
		}
	}
	return resp
}
