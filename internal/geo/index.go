// Package geo holds the spatial pieces of the matching pipeline: the
// LocationIndex pre-filter, great-circle distance math, and the external
// geocoder boundary.
package geo

import "context"

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// LocationIndex is the approximate spatial pre-filter in front of the
// relational store. RadiusQuery returns candidate user ids only; callers
// recompute exact distances themselves because index precision (geohash
// bucket or GEO radius) is coarser than what sorting and display need.
type LocationIndex interface {
	Index(ctx context.Context, userID string, lat, lng float64) error
	Remove(ctx context.Context, userID string) error
	RadiusQuery(ctx context.Context, lat, lng, radiusKm float64) ([]string, error)
}
