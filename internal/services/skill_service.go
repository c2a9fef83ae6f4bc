package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"favorx_backend/internal/geo"
	"favorx_backend/internal/logger"
	"favorx_backend/internal/models"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"
	"favorx_backend/pkg/apperrors"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

type SkillService interface {
	CreateSkill(ctx context.Context, userID string, req *dto.CreateSkillRequest) (*dto.SkillResponse, error)
	GetSkill(skillID string) (*dto.SkillResponse, error)
	GetUserSkills(userID string) ([]*dto.SkillResponse, error)
	UpdateSkill(userID, skillID string, req *dto.UpdateSkillRequest) (*dto.SkillResponse, error)
	DeleteSkill(ctx context.Context, userID, skillID string) error
	SearchSkills(ctx context.Context, req *dto.SkillSearchRequest) (*dto.SkillListResponse, error)
}

type skillService struct {
	skillRepo    repositories.SkillRepository
	geocoder     geo.Geocoder
	karmaService KarmaService
}

func NewSkillService(
	skillRepo repositories.SkillRepository,
	geocoder geo.Geocoder,
	karmaService KarmaService,
) SkillService {
	return &skillService{
		skillRepo:    skillRepo,
		geocoder:     geocoder,
		karmaService: karmaService,
	}
}

// ---------------- CRUD ----------------

func (s *skillService) CreateSkill(ctx context.Context, userID string, req *dto.CreateSkillRequest) (*dto.SkillResponse, error) {
	skill := &models.Skill{
		UserID:      userID,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		EffortTime:  req.EffortTime,
		IsOffering:  *req.IsOffering,
	}
	if err := s.skillRepo.Create(skill); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}

	// A new listing is an activity event, so the owner's karma moves.
	if _, err := s.karmaService.UpdateUserKarma(ctx, userID); err != nil {
		logger.CtxWithError(ctx, "karma refresh after skill create failed", err, "user_id", userID)
	}

	return skillToResponse(skill, nil), nil
}

func (s *skillService) GetSkill(skillID string) (*dto.SkillResponse, error) {
	skill, err := s.skillRepo.FindByID(skillID)
	if errors.Is(err, repositories.ErrSkillNotFound) {
		return nil, apperrors.ErrNotFound(err, "skills", "Skill not found")
	}
	if err != nil {
		return nil, err
	}
	return skillToResponse(skill, nil), nil
}

func (s *skillService) GetUserSkills(userID string) ([]*dto.SkillResponse, error) {
	skills, err := s.skillRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.SkillResponse, 0, len(skills))
	for i := range skills {
		responses = append(responses, skillToResponse(&skills[i], nil))
	}
	return responses, nil
}

func (s *skillService) UpdateSkill(userID, skillID string, req *dto.UpdateSkillRequest) (*dto.SkillResponse, error) {
	skill, err := s.skillRepo.FindByIDAndOwner(skillID, userID)
	if errors.Is(err, repositories.ErrSkillNotFound) {
		return nil, apperrors.ErrNotFound(err, "skills", "Skill not found")
	}
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		skill.Category = *req.Category
	}
	if req.Title != nil {
		skill.Title = *req.Title
	}
	if req.Description != nil {
		skill.Description = *req.Description
	}
	if req.EffortTime != nil {
		skill.EffortTime = *req.EffortTime
	}
	if req.IsOffering != nil {
		skill.IsOffering = *req.IsOffering
	}

	if err := s.skillRepo.Update(skill); err != nil {
		return nil, fmt.Errorf("update skill %s: %w", skillID, err)
	}
	return skillToResponse(skill, nil), nil
}

func (s *skillService) DeleteSkill(ctx context.Context, userID, skillID string) error {
	if _, err := s.skillRepo.FindByIDAndOwner(skillID, userID); err != nil {
		if errors.Is(err, repositories.ErrSkillNotFound) {
			return apperrors.ErrNotFound(err, "skills", "Skill not found")
		}
		return err
	}
	if err := s.skillRepo.Delete(skillID); err != nil {
		return fmt.Errorf("delete skill %s: %w", skillID, err)
	}

	if _, err := s.karmaService.UpdateUserKarma(ctx, userID); err != nil {
		logger.CtxWithError(ctx, "karma refresh after skill delete failed", err, "user_id", userID)
	}
	return nil
}

// ---------------- Search ----------------

// SearchSkills runs the catalog search. A free-text "near" place is geocoded
// first; if the geocoder cannot resolve it the search still runs, just
// without the distance filter.
func (s *skillService) SearchSkills(ctx context.Context, req *dto.SkillSearchRequest) (*dto.SkillListResponse, error) {
	criteria := repositories.SkillSearchCriteria{
		Category:   req.Category,
		IsOffering: req.IsOffering,
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortDesc:   req.SortDesc,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if criteria.Page < 1 {
		criteria.Page = defaultPage
	}
	if criteria.PageSize < 1 {
		criteria.PageSize = defaultPageSize
	}

	if req.Near != "" {
		point, err := s.geocoder.Resolve(ctx, req.Near)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", req.Near, err)
		}
		if point == nil {
			logger.CtxInfo(ctx, "near filter dropped, place not resolvable", "near", req.Near)
		} else {
			distanceKm := req.DistanceKm
			if distanceKm <= 0 {
				distanceKm = 10
			}
			criteria.Near = &repositories.SkillSearchPoint{
				Latitude:   point.Latitude,
				Longitude:  point.Longitude,
				DistanceKm: distanceKm,
			}
		}
	}

	rows, total, err := s.skillRepo.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search skills: %w", err)
	}

	skills := make([]*dto.SkillResponse, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		skills = append(skills, skillToResponse(&row.Skill, &dto.SkillOwnerInfo{
			Username:   row.Username,
			KarmaScore: row.KarmaScore,
			Location:   row.Location,
		}))
	}

	return &dto.SkillListResponse{
		Skills:     skills,
		Total:      total,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
		TotalPages: totalPages(total, criteria.PageSize),
	}, nil
}

// ---------------- Helpers ----------------

func skillToResponse(skill *models.Skill, owner *dto.SkillOwnerInfo) *dto.SkillResponse {
	return &dto.SkillResponse{
		ID:          skill.ID,
		UserID:      skill.UserID,
		Category:    skill.Category,
		Title:       skill.Title,
		Description: skill.Description,
		EffortTime:  skill.EffortTime,
		IsOffering:  skill.IsOffering,
		CreatedAt:   skill.CreatedAt,
		UpdatedAt:   skill.UpdatedAt,
		Owner:       owner,
	}
}

func totalPages(total int64, pageSize int) int {
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
