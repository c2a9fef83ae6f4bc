package geo

import (
	"context"
	"fmt"

	"github.com/mmcloughlin/geohash"
	"github.com/redis/go-redis/v9"
)

const (
	geoSetKey = "user_locations"

	// geohashPrecision 7 gives ~150m buckets, the practical resolution of
	// the pre-filter.
	geohashPrecision = 7
)

type redisIndex struct {
	client *redis.Client
}

// NewRedisIndex builds a LocationIndex backed by a Redis GEO set. Each user
// also gets a location hash carrying the raw coordinates and a precision-7
// geohash for debugging and bucket-level lookups.
func NewRedisIndex(client *redis.Client) LocationIndex {
	return &redisIndex{client: client}
}

func (i *redisIndex) Index(ctx context.Context, userID string, lat, lng float64) error {
	hash := geohash.EncodeWithPrecision(lat, lng, geohashPrecision)

	pipe := i.client.TxPipeline()
	pipe.HSet(ctx, userLocationKey(userID), map[string]interface{}{
		"latitude":  lat,
		"longitude": lng,
		"geohash":   hash,
	})
	pipe.GeoAdd(ctx, geoSetKey, &redis.GeoLocation{
		Name:      userID,
		Latitude:  lat,
		Longitude: lng,
	})
	_, err := pipe.Exec(ctx)
	return err
}

func (i *redisIndex) Remove(ctx context.Context, userID string) error {
	pipe := i.client.TxPipeline()
	pipe.Del(ctx, userLocationKey(userID))
	pipe.ZRem(ctx, geoSetKey, userID)
	_, err := pipe.Exec(ctx)
	return err
}

func (i *redisIndex) RadiusQuery(ctx context.Context, lat, lng, radiusKm float64) ([]string, error) {
	// GEOSEARCH takes meters; callers think in kilometers.
	locations, err := i.client.GeoSearch(ctx, geoSetKey, &redis.GeoSearchQuery{
		Latitude:   lat,
		Longitude:  lng,
		Radius:     radiusKm * 1000,
		RadiusUnit: "m",
	}).Result()
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(locations))
	for _, member := range locations {
		userIDs = append(userIDs, member)
	}
	return userIDs, nil
}

func userLocationKey(userID string) string {
	return fmt.Sprintf("user:%s:location", userID)
}
