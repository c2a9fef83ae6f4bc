package services

import (
	"context"
	"testing"

	"favorx_backend/internal/models"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"
	"favorx_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- extra stubRatingRepo behavior for the rating flows --------

func (f *stubRatingRepo) Create(rating *models.Rating) error {
	rating.ID = "rating-1"
	f.created = append(f.created, rating)
	return nil
}

func (f *stubRatingRepo) FindByID(id string) (*models.Rating, error) {
	r, ok := f.ratingsByID[id]
	if !ok {
		return nil, repositories.ErrRatingNotFound
	}
	return r, nil
}

func (f *stubRatingRepo) FindByTriple(raterID, ratedID, skillID string) (*models.Rating, error) {
	if f.tripleTaken {
		return &models.Rating{}, nil
	}
	return nil, repositories.ErrRatingNotFound
}

func (f *stubRatingRepo) Delete(id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type recordingKarmaService struct {
	KarmaService
	updated []string
}

func (f *recordingKarmaService) UpdateUserKarma(_ context.Context, userID string) (float64, error) {
	f.updated = append(f.updated, userID)
	return 3.2, nil
}

// -------- fixture --------

type ratingFixture struct {
	ratings *stubRatingRepo
	skills  *stubSkillRepo
	users   *stubUserRepo
	karma   *recordingKarmaService
	svc     RatingService
}

func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()
	setTestConfig(t)
	skill := &models.Skill{UserID: "helper", Category: "repair", Title: "Bike fixing"}
	skill.ID = "s1"
	f := &ratingFixture{
		ratings: &stubRatingRepo{ratingsByID: map[string]*models.Rating{}},
		skills:  &stubSkillRepo{skillsByID: map[string]*models.Skill{"s1": skill}},
		users:   &stubUserRepo{usersByID: map[string]*models.User{}},
		karma:   &recordingKarmaService{},
	}
	f.svc = NewRatingService(f.ratings, f.skills, f.users, f.karma)
	return f
}

// -------- tests --------

func TestCreateRating(t *testing.T) {
	f := newRatingFixture(t)

	resp, err := f.svc.CreateRating(context.Background(), "seeker", &dto.CreateRatingRequest{
		RatedID: "helper",
		SkillID: "s1",
		Rating:  5,
		Review:  "fixed my brakes in one evening",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Rating)
	assert.Equal(t, "helper", resp.RatedID)
	require.Len(t, f.ratings.created, 1)

	// The rated user's karma is refreshed right away.
	assert.Equal(t, []string{"helper"}, f.karma.updated)
}

func TestCreateRatingRejectsSelfRating(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.svc.CreateRating(context.Background(), "helper", &dto.CreateRatingRequest{
		RatedID: "helper",
		SkillID: "s1",
		Rating:  5,
	})
	assert.ErrorIs(t, err, ErrSelfRatingNotAllowed)
	assert.Empty(t, f.ratings.created)
}

func TestCreateRatingRejectsForeignSkill(t *testing.T) {
	f := newRatingFixture(t)

	// s1 belongs to "helper", not to the user being rated.
	_, err := f.svc.CreateRating(context.Background(), "seeker", &dto.CreateRatingRequest{
		RatedID: "impostor",
		SkillID: "s1",
		Rating:  5,
	})
	assert.ErrorIs(t, err, ErrRatingSkillMismatch)
}

func TestCreateRatingRejectsUnknownSkill(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.svc.CreateRating(context.Background(), "seeker", &dto.CreateRatingRequest{
		RatedID: "helper",
		SkillID: "ghost",
		Rating:  5,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestCreateRatingRejectsDuplicate(t *testing.T) {
	f := newRatingFixture(t)
	f.ratings.tripleTaken = true

	_, err := f.svc.CreateRating(context.Background(), "seeker", &dto.CreateRatingRequest{
		RatedID: "helper",
		SkillID: "s1",
		Rating:  4,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
	assert.Empty(t, f.karma.updated)
}

func TestDeleteRatingRecomputesKarma(t *testing.T) {
	f := newRatingFixture(t)
	f.ratings.ratingsByID["rating-1"] = &models.Rating{
		RaterID: "seeker", RatedID: "helper", SkillID: "s1", Rating: 1,
	}

	require.NoError(t, f.svc.DeleteRating(context.Background(), "rating-1"))
	assert.Equal(t, []string{"rating-1"}, f.ratings.deleted)
	assert.Equal(t, []string{"helper"}, f.karma.updated)
}

func TestDeleteRatingNotFound(t *testing.T) {
	f := newRatingFixture(t)

	err := f.svc.DeleteRating(context.Background(), "ghost")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestGetUserRatingsUnknownUser(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.svc.GetUserRatings("ghost", 1, 20)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
