package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"favorx_backend/internal/config"
	"favorx_backend/internal/geo"
	"favorx_backend/internal/logger"
	"favorx_backend/internal/models"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"
	"favorx_backend/pkg/apperrors"

	"github.com/mmcloughlin/geohash"
)

const profileGeohashPrecision = 7

type LocationService interface {
	UpdateUserLocation(ctx context.Context, userID string, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	FindNearbySkills(ctx context.Context, userID string, criteria *dto.NearbySkillsCriteria) (*dto.NearbySkillsResponse, error)
	RemoveUserLocation(ctx context.Context, userID string) error
	RebuildIndex(ctx context.Context) (int, error)
}

type locationService struct {
	profileRepo repositories.ProfileRepository
	skillRepo   repositories.SkillRepository
	index       geo.LocationIndex
	geocoder    geo.Geocoder
}

func NewLocationService(
	profileRepo repositories.ProfileRepository,
	skillRepo repositories.SkillRepository,
	index geo.LocationIndex,
	geocoder geo.Geocoder,
) LocationService {
	return &locationService{
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
		index:       index,
		geocoder:    geocoder,
	}
}

// ---------------- Location updates ----------------

// UpdateUserLocation stores the user's place text and, when coordinates are
// available (supplied or geocoded), indexes them for proximity queries.
// Geocoding is best-effort: an unresolvable place still saves, just without
// coordinates, and the user drops out of the spatial index.
func (s *locationService) UpdateUserLocation(ctx context.Context, userID string, req *dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	lat, lng := req.Latitude, req.Longitude
	geocoded := false

	if lat == nil || lng == nil {
		point, err := s.geocoder.Resolve(ctx, req.Location)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", req.Location, err)
		}
		if point != nil {
			lat, lng = &point.Latitude, &point.Longitude
			geocoded = true
		}
	}

	if lat == nil || lng == nil {
		if err := s.saveTextOnlyLocation(ctx, userID, req.Location); err != nil {
			return nil, err
		}
		logger.CtxInfo(ctx, "location saved without coordinates",
			"user_id", userID, "location", req.Location)
		return &dto.LocationResponse{Location: req.Location}, nil
	}

	hash := geohash.EncodeWithPrecision(*lat, *lng, profileGeohashPrecision)
	err := s.profileRepo.UpdateLocation(userID, req.Location, *lat, *lng, hash)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		err = s.profileRepo.Create(&models.Profile{
			UserID:    userID,
			Location:  req.Location,
			Latitude:  lat,
			Longitude: lng,
			Geohash:   hash,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("save location for user %s: %w", userID, err)
	}

	if err := s.index.Index(ctx, userID, *lat, *lng); err != nil {
		// The profile row is the source of truth; the index catches up on
		// the next rebuild sweep.
		logger.CtxWithError(ctx, "failed to index user location", err, "user_id", userID)
	}

	return &dto.LocationResponse{
		Location:  req.Location,
		Latitude:  lat,
		Longitude: lng,
		Geocoded:  geocoded,
	}, nil
}

func (s *locationService) saveTextOnlyLocation(ctx context.Context, userID, location string) error {
	profile, err := s.profileRepo.FindByUserID(userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return s.profileRepo.Create(&models.Profile{UserID: userID, Location: location})
	}
	if err != nil {
		return err
	}

	profile.Location = location
	profile.Latitude = nil
	profile.Longitude = nil
	profile.Geohash = ""
	if err := s.profileRepo.Update(profile); err != nil {
		return err
	}
	if err := s.index.Remove(ctx, userID); err != nil {
		logger.CtxWithError(ctx, "failed to deindex user location", err, "user_id", userID)
	}
	return nil
}

func (s *locationService) RemoveUserLocation(ctx context.Context, userID string) error {
	return s.saveTextOnlyLocation(ctx, userID, "")
}

// RebuildIndex reindexes every profile that has coordinates. Run at startup
// and by the nightly sweep so the index never drifts far from the database.
func (s *locationService) RebuildIndex(ctx context.Context) (int, error) {
	coords, err := s.profileRepo.ListWithCoordinates()
	if err != nil {
		return 0, fmt.Errorf("list profiles with coordinates: %w", err)
	}

	indexed := 0
	for _, c := range coords {
		if err := s.index.Index(ctx, c.UserID, c.Latitude, c.Longitude); err != nil {
			logger.CtxWithError(ctx, "failed to index profile", err, "user_id", c.UserID)
			continue
		}
		indexed++
	}
	return indexed, nil
}

// ---------------- Proximity matching ----------------

// FindNearbySkills matches the requesting user against skill listings around
// them. The spatial index narrows candidates by radius, the database joins in
// skills, karma and category, and the exact haversine distance decides the
// final cut and ordering: closest first, higher karma breaking ties.
func (s *locationService) FindNearbySkills(ctx context.Context, userID string, criteria *dto.NearbySkillsCriteria) (*dto.NearbySkillsResponse, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.ErrUserLocationNotSet
	}
	if err != nil {
		return nil, fmt.Errorf("load profile for user %s: %w", userID, err)
	}
	if !profile.HasLocation() {
		return nil, apperrors.ErrUserLocationNotSet
	}

	radiusKm := criteria.MaxDistanceKm
	if radiusKm <= 0 {
		radiusKm = config.GetConfig().Matching.DefaultRadiusKm
	}
	lat, lng := *profile.Latitude, *profile.Longitude

	candidates, err := s.index.RadiusQuery(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("radius query: %w", err)
	}
	candidates = excludeID(candidates, userID)
	if len(candidates) == 0 {
		return emptyNearbyResponse(), nil
	}

	rows, err := s.skillRepo.FindByUsers(candidates, criteria.Category, criteria.MinKarma)
	if err != nil {
		return nil, fmt.Errorf("load candidate skills: %w", err)
	}

	type scoredResult struct {
		result   *dto.NearbySkillResult
		distance float64
	}
	scored := make([]scoredResult, 0, len(rows))
	for _, row := range rows {
		if criteria.OfferingOnly && !row.IsOffering {
			continue
		}
		if row.Latitude == nil || row.Longitude == nil {
			continue
		}
		// The index radius is approximate; the exact distance decides.
		distance := geo.HaversineKm(lat, lng, *row.Latitude, *row.Longitude)
		if distance > radiusKm {
			continue
		}
		scored = append(scored, scoredResult{
			result: &dto.NearbySkillResult{
				SkillID:    row.ID,
				Title:      row.Title,
				Category:   row.Category,
				EffortTime: row.EffortTime,
				IsOffering: row.IsOffering,
				UserID:     row.UserID,
				Username:   row.Username,
				KarmaScore: row.KarmaScore,
				Location:   row.Location,
				DistanceKm: round1(distance),
			},
			distance: distance,
		})
	}

	// The exact distance orders results; DistanceKm is rounded for display
	// only, so near-ties do not get reshuffled by karma.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].distance != scored[j].distance {
			return scored[i].distance < scored[j].distance
		}
		return scored[i].result.KarmaScore > scored[j].result.KarmaScore
	})

	results := make([]*dto.NearbySkillResult, len(scored))
	for i, sr := range scored {
		results[i] = sr.result
	}

	byCategory := make(map[string][]*dto.NearbySkillResult)
	for _, r := range results {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	return &dto.NearbySkillsResponse{
		Results:    results,
		ByCategory: byCategory,
		Total:      len(results),
	}, nil
}

func emptyNearbyResponse() *dto.NearbySkillsResponse {
	return &dto.NearbySkillsResponse{
		Results:    []*dto.NearbySkillResult{},
		ByCategory: map[string][]*dto.NearbySkillResult{},
	}
}

func excludeID(ids []string, exclude string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
