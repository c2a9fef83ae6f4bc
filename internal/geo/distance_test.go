package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
		delta                  float64
	}{
		{
			name: "same point",
			lat1: 43.238949, lng1: 76.889709,
			lat2: 43.238949, lng2: 76.889709,
			wantKm: 0, delta: 0.001,
		},
		{
			name: "almaty to astana",
			lat1: 43.238949, lng1: 76.889709,
			lat2: 51.169392, lng2: 71.449074,
			wantKm: 970, delta: 15,
		},
		{
			name: "one degree of latitude",
			lat1: 43, lng1: 76,
			lat2: 44, lng2: 76,
			wantKm: 111.2, delta: 0.5,
		},
		{
			name: "across the antimeridian",
			lat1: 0, lng1: 179.5,
			lat2: 0, lng2: -179.5,
			wantKm: 111.2, delta: 0.5,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := HaversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.wantKm, got, tt.delta)

			// Distance is symmetric.
			assert.InDelta(t, got, HaversineKm(tt.lat2, tt.lng2, tt.lat1, tt.lng1), 0.001)
		})
	}
}
