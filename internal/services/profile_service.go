package services

import (
	"errors"
	"fmt"

	"favorx_backend/internal/models"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"
	"favorx_backend/pkg/apperrors"
)

type ProfileService interface {
	GetProfile(userID string) (*dto.ProfileResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

func (s *profileService) GetProfile(userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.ErrNotFound(err, "profiles", "User not found")
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByUserID(userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		// Registration always creates a profile row; tolerate its absence
		// for accounts migrated from before that.
		profile = &models.Profile{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	return profileToResponse(user, profile), nil
}

func (s *profileService) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.ErrNotFound(err, "profiles", "User not found")
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByUserID(userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		profile = &models.Profile{UserID: userID}
		if err := s.profileRepo.Create(profile); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.ProfileImageURL != nil {
		profile.ProfileImageURL = *req.ProfileImageURL
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("update profile for user %s: %w", userID, err)
	}
	return profileToResponse(user, profile), nil
}

func profileToResponse(user *models.User, profile *models.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:          user.ID,
		Username:        user.Username,
		FullName:        profile.FullName,
		Bio:             profile.Bio,
		Location:        profile.Location,
		Latitude:        profile.Latitude,
		Longitude:       profile.Longitude,
		ProfileImageURL: profile.ProfileImageURL,
		KarmaScore:      user.KarmaScore,
		IsVerified:      user.IsVerified,
	}
}
