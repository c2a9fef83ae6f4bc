package services

import (
	"context"
	"testing"

	"favorx_backend/internal/geo"
	"favorx_backend/internal/models"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"
	"favorx_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------- test fakes --------

type stubProfileRepo struct {
	repositories.ProfileRepository

	profiles map[string]*models.Profile
	created  []*models.Profile
	updated  []*models.Profile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: map[string]*models.Profile{}}
}

func (f *stubProfileRepo) FindByUserID(userID string) (*models.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return p, nil
}

func (f *stubProfileRepo) Create(profile *models.Profile) error {
	f.created = append(f.created, profile)
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *stubProfileRepo) Update(profile *models.Profile) error {
	f.updated = append(f.updated, profile)
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *stubProfileRepo) UpdateLocation(userID, location string, lat, lng float64, hash string) error {
	p, ok := f.profiles[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Location = location
	p.Latitude, p.Longitude = &lat, &lng
	p.Geohash = hash
	return nil
}

func (f *stubProfileRepo) ListWithCoordinates() ([]repositories.ProfileCoordinates, error) {
	var out []repositories.ProfileCoordinates
	for _, p := range f.profiles {
		if p.HasLocation() {
			out = append(out, repositories.ProfileCoordinates{
				UserID: p.UserID, Latitude: *p.Latitude, Longitude: *p.Longitude,
			})
		}
	}
	return out, nil
}

func (f *stubProfileRepo) withCoords(userID string, lat, lng float64) *stubProfileRepo {
	f.profiles[userID] = &models.Profile{
		UserID: userID, Location: "somewhere", Latitude: &lat, Longitude: &lng,
	}
	return f
}

type stubMatchSkillRepo struct {
	repositories.SkillRepository

	rows    []repositories.SkillWithOwner
	queried bool
}

func (f *stubMatchSkillRepo) FindByUsers(userIDs []string, category string, minKarma float64) ([]repositories.SkillWithOwner, error) {
	f.queried = true
	var out []repositories.SkillWithOwner
	for _, row := range f.rows {
		if !contains(userIDs, row.UserID) {
			continue
		}
		if category != "" && row.Category != category {
			continue
		}
		if row.KarmaScore < minKarma {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type stubGeocoder struct {
	point   *geo.Point
	err     error
	queries []string
}

func (f *stubGeocoder) Resolve(_ context.Context, text string) (*geo.Point, error) {
	f.queries = append(f.queries, text)
	return f.point, f.err
}

// trackingIndex wraps the in-memory index and records radius queries, so a
// test can assert the matcher never reached the spatial layer.
type trackingIndex struct {
	*geo.MemoryIndex
	radiusQueries int
}

func (f *trackingIndex) RadiusQuery(ctx context.Context, lat, lng, radiusKm float64) ([]string, error) {
	f.radiusQueries++
	return f.MemoryIndex.RadiusQuery(ctx, lat, lng, radiusKm)
}

// -------- helpers --------

func skillRow(skillID, userID, username, category string, karma float64, lat, lng float64, offering bool) repositories.SkillWithOwner {
	row := repositories.SkillWithOwner{
		Username:   username,
		KarmaScore: karma,
		Location:   "town",
		Latitude:   &lat,
		Longitude:  &lng,
	}
	row.ID = skillID
	row.UserID = userID
	row.Category = category
	row.Title = "favor " + skillID
	row.IsOffering = offering
	return row
}

// Around Almaty: ~0.009 degrees of latitude is one kilometre.
const (
	originLat = 43.238949
	originLng = 76.889709
)

func newMatchFixture(t *testing.T) (*stubProfileRepo, *stubMatchSkillRepo, *trackingIndex, LocationService) {
	t.Helper()
	setTestConfig(t)
	profiles := newStubProfileRepo().withCoords("seeker", originLat, originLng)
	skills := &stubMatchSkillRepo{}
	index := &trackingIndex{MemoryIndex: geo.NewMemoryIndex()}
	svc := NewLocationService(profiles, skills, index, &stubGeocoder{})
	require.NoError(t, index.Index(context.Background(), "seeker", originLat, originLng))
	return profiles, skills, index, svc
}

// -------- matching tests --------

func TestFindNearbySkillsRequiresLocation(t *testing.T) {
	setTestConfig(t)
	profiles := newStubProfileRepo()
	skills := &stubMatchSkillRepo{}
	index := &trackingIndex{MemoryIndex: geo.NewMemoryIndex()}
	svc := NewLocationService(profiles, skills, index, &stubGeocoder{})

	_, err := svc.FindNearbySkills(context.Background(), "seeker", &dto.NearbySkillsCriteria{})
	assert.ErrorIs(t, err, apperrors.ErrUserLocationNotSet)

	// A profile without coordinates is just as unqualified.
	profiles.profiles["seeker"] = &models.Profile{UserID: "seeker", Location: "village"}
	_, err = svc.FindNearbySkills(context.Background(), "seeker", &dto.NearbySkillsCriteria{})
	assert.ErrorIs(t, err, apperrors.ErrUserLocationNotSet)

	assert.Zero(t, index.radiusQueries, "no spatial query may run without a stored location")
	assert.False(t, skills.queried)
}

func TestFindNearbySkillsOrdersByDistanceThenKarma(t *testing.T) {
	_, skills, index, svc := newMatchFixture(t)
	ctx := context.Background()

	// 0 km, ~2 km and ~2 km away; the two at equal distance differ in karma.
	require.NoError(t, index.Index(ctx, "same-spot", originLat, originLng))
	require.NoError(t, index.Index(ctx, "near-low", originLat+0.018, originLng))
	require.NoError(t, index.Index(ctx, "near-high", originLat-0.018, originLng))

	skills.rows = []repositories.SkillWithOwner{
		skillRow("s1", "near-low", "lena", "tutoring", 2.8, originLat+0.018, originLng, true),
		skillRow("s2", "same-spot", "marat", "tutoring", 3.1, originLat, originLng, true),
		skillRow("s3", "near-high", "aida", "tutoring", 4.6, originLat-0.018, originLng, true),
	}

	resp, err := svc.FindNearbySkills(ctx, "seeker", &dto.NearbySkillsCriteria{MaxDistanceKm: 5})
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, "s2", resp.Results[0].SkillID)
	assert.Equal(t, 0.0, resp.Results[0].DistanceKm)
	// Exactly equal distance resolves by karma, high first.
	assert.Equal(t, "s3", resp.Results[1].SkillID)
	assert.Equal(t, "s1", resp.Results[2].SkillID)
	assert.Equal(t, resp.Results[1].DistanceKm, resp.Results[2].DistanceKm)
}

func TestFindNearbySkillsExactDistanceBeatsKarma(t *testing.T) {
	_, skills, index, svc := newMatchFixture(t)
	ctx := context.Background()

	// ~1.21 km and ~1.23 km away; both display as 1.2 km, but the closer one
	// must stay first even though the farther user has more karma.
	closeLat := originLat + 0.0109
	farLat := originLat + 0.0111
	require.NoError(t, index.Index(ctx, "close", closeLat, originLng))
	require.NoError(t, index.Index(ctx, "far", farLat, originLng))

	skills.rows = []repositories.SkillWithOwner{
		skillRow("s-far", "far", "marat", "tutoring", 5.0, farLat, originLng, true),
		skillRow("s-close", "close", "lena", "tutoring", 1.0, closeLat, originLng, true),
	}

	resp, err := svc.FindNearbySkills(ctx, "seeker", &dto.NearbySkillsCriteria{MaxDistanceKm: 5})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, "s-close", resp.Results[0].SkillID)
	assert.Equal(t, "s-far", resp.Results[1].SkillID)
	assert.Equal(t, resp.Results[0].DistanceKm, resp.Results[1].DistanceKm)
}

func TestFindNearbySkillsExcludesBeyondRadius(t *testing.T) {
	_, skills, index, svc := newMatchFixture(t)
	ctx := context.Background()

	// ~2 km and ~20 km away.
	require.NoError(t, index.Index(ctx, "close", originLat+0.018, originLng))
	require.NoError(t, index.Index(ctx, "far", originLat+0.18, originLng))

	skills.rows = []repositories.SkillWithOwner{
		skillRow("s1", "close", "lena", "repair", 3.0, originLat+0.018, originLng, true),
		skillRow("s2", "far", "marat", "repair", 5.0, originLat+0.18, originLng, true),
	}

	resp, err := svc.FindNearbySkills(ctx, "seeker", &dto.NearbySkillsCriteria{MaxDistanceKm: 5})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "s1", resp.Results[0].SkillID)
}

func TestFindNearbySkillsExcludesSelf(t *testing.T) {
	_, skills, index, svc := newMatchFixture(t)
	ctx := context.Background()

	require.NoError(t, index.Index(ctx, "other", originLat, originLng))
	skills.rows = []repositories.SkillWithOwner{
		skillRow("mine", "seeker", "me", "cooking", 3.0, originLat, originLng, true),
		skillRow("theirs", "other", "dana", "cooking", 3.0, originLat, originLng, true),
	}

	resp, err := svc.FindNearbySkills(ctx, "seeker", &dto.NearbySkillsCriteria{MaxDistanceKm: 5})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "theirs", resp.Results[0].SkillID)
}

func TestFindNearbySkillsOfferingOnlyAndGrouping(t *testing.T) {
	_, skills, index, svc := newMatchFixture(t)
	ctx := context.Background()

	require.NoError(t, index.Index(ctx, "u1", originLat, originLng))
	require.NoError(t, index.Index(ctx, "u2", originLat, originLng))
	skills.rows = []repositories.SkillWithOwner{
		skillRow("s1", "u1", "lena", "tutoring", 3.0, originLat, originLng, true),
		skillRow("s2", "u1", "lena", "repair", 3.0, originLat, originLng, false),
		skillRow("s3", "u2", "marat", "tutoring", 4.0, originLat, originLng, true),
	}

	resp, err := svc.FindNearbySkills(ctx, "seeker", &dto.NearbySkillsCriteria{
		MaxDistanceKm: 5,
		OfferingOnly:  true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.ByCategory["tutoring"], 2)
	assert.NotContains(t, resp.ByCategory, "repair")
}

func TestFindNearbySkillsEmptyNeighbourhood(t *testing.T) {
	_, skills, _, svc := newMatchFixture(t)

	resp, err := svc.FindNearbySkills(context.Background(), "seeker", &dto.NearbySkillsCriteria{MaxDistanceKm: 5})
	require.NoError(t, err)

	assert.NotNil(t, resp.Results)
	assert.NotNil(t, resp.ByCategory)
	assert.Empty(t, resp.Results)
	assert.Zero(t, resp.Total)
	// With no candidates in range the relational lookup is skipped entirely.
	assert.False(t, skills.queried)
}

func TestFindNearbySkillsDefaultRadius(t *testing.T) {
	_, skills, index, svc := newMatchFixture(t)
	ctx := context.Background()

	// ~2 km away, inside the configured 10 km default.
	require.NoError(t, index.Index(ctx, "close", originLat+0.018, originLng))
	skills.rows = []repositories.SkillWithOwner{
		skillRow("s1", "close", "lena", "errands", 3.0, originLat+0.018, originLng, true),
	}

	resp, err := svc.FindNearbySkills(ctx, "seeker", &dto.NearbySkillsCriteria{})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

// -------- location update tests --------

func TestUpdateUserLocationWithSuppliedCoordinates(t *testing.T) {
	setTestConfig(t)
	profiles := newStubProfileRepo()
	profiles.profiles["u1"] = &models.Profile{UserID: "u1"}
	geocoder := &stubGeocoder{}
	index := geo.NewMemoryIndex()
	svc := NewLocationService(profiles, &stubMatchSkillRepo{}, index, geocoder)

	lat, lng := originLat, originLng
	resp, err := svc.UpdateUserLocation(context.Background(), "u1", &dto.UpdateLocationRequest{
		Location: "Almaty", Latitude: &lat, Longitude: &lng,
	})
	require.NoError(t, err)

	assert.Equal(t, "Almaty", resp.Location)
	assert.False(t, resp.Geocoded)
	assert.Empty(t, geocoder.queries, "supplied coordinates skip the geocoder")

	p := profiles.profiles["u1"]
	require.True(t, p.HasLocation())
	assert.Len(t, p.Geohash, 7)

	ids, err := index.RadiusQuery(context.Background(), originLat, originLng, 1)
	require.NoError(t, err)
	assert.Contains(t, ids, "u1")
}

func TestUpdateUserLocationGeocodes(t *testing.T) {
	setTestConfig(t)
	profiles := newStubProfileRepo()
	profiles.profiles["u1"] = &models.Profile{UserID: "u1"}
	geocoder := &stubGeocoder{point: &geo.Point{Latitude: originLat, Longitude: originLng}}
	svc := NewLocationService(profiles, &stubMatchSkillRepo{}, geo.NewMemoryIndex(), geocoder)

	resp, err := svc.UpdateUserLocation(context.Background(), "u1", &dto.UpdateLocationRequest{Location: "Almaty"})
	require.NoError(t, err)

	assert.True(t, resp.Geocoded)
	require.NotNil(t, resp.Latitude)
	assert.Equal(t, originLat, *resp.Latitude)
	assert.Equal(t, []string{"Almaty"}, geocoder.queries)
}

func TestUpdateUserLocationGeocoderDegrades(t *testing.T) {
	setTestConfig(t)
	lat, lng := originLat, originLng
	profiles := newStubProfileRepo()
	profiles.profiles["u1"] = &models.Profile{
		UserID: "u1", Location: "old town", Latitude: &lat, Longitude: &lng, Geohash: "abcdefg",
	}
	index := geo.NewMemoryIndex()
	require.NoError(t, index.Index(context.Background(), "u1", lat, lng))
	// Resolve returning (nil, nil) is the degraded path: saved, not indexed.
	svc := NewLocationService(profiles, &stubMatchSkillRepo{}, index, &stubGeocoder{})

	resp, err := svc.UpdateUserLocation(context.Background(), "u1", &dto.UpdateLocationRequest{Location: "Nowhereville"})
	require.NoError(t, err)

	assert.Equal(t, "Nowhereville", resp.Location)
	assert.False(t, resp.Geocoded)
	assert.Nil(t, resp.Latitude)

	p := profiles.profiles["u1"]
	assert.False(t, p.HasLocation())
	assert.Empty(t, p.Geohash)

	ids, err := index.RadiusQuery(context.Background(), lat, lng, 1)
	require.NoError(t, err)
	assert.NotContains(t, ids, "u1")
}

func TestUpdateUserLocationCreatesMissingProfile(t *testing.T) {
	setTestConfig(t)
	profiles := newStubProfileRepo()
	svc := NewLocationService(profiles, &stubMatchSkillRepo{}, geo.NewMemoryIndex(), &stubGeocoder{})

	lat, lng := originLat, originLng
	_, err := svc.UpdateUserLocation(context.Background(), "fresh", &dto.UpdateLocationRequest{
		Location: "Almaty", Latitude: &lat, Longitude: &lng,
	})
	require.NoError(t, err)
	require.Len(t, profiles.created, 1)
	assert.Equal(t, "fresh", profiles.created[0].UserID)
}

func TestRebuildIndex(t *testing.T) {
	setTestConfig(t)
	profiles := newStubProfileRepo().
		withCoords("u1", originLat, originLng).
		withCoords("u2", originLat+0.018, originLng)
	profiles.profiles["no-coords"] = &models.Profile{UserID: "no-coords", Location: "village"}
	index := geo.NewMemoryIndex()
	svc := NewLocationService(profiles, &stubMatchSkillRepo{}, index, &stubGeocoder{})

	indexed, err := svc.RebuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, indexed)

	ids, err := index.RadiusQuery(context.Background(), originLat, originLng, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, ids)
}
