package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/pkg/utils"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("zero distance for same point", func(t *testing.T) {
		d := utils.HaversineDistance(50.0755, 14.4378, 50.0755, 14.4378)
		assert.Equal(t, 0.0, d)
	})

	t.Run("known distances from Prague center", func(t *testing.T) {
		center := domain.Point{Lat: 50.0755, Lng: 14.4378}

		// Offsets due north: ~111.195 km per degree of latitude
		tests := []struct {
			name     string
			lat      float64
			expected float64
		}{
			{"100m north", 50.0764, 0.1},
			{"400m north", 50.0791, 0.4},
			{"600m north", 50.0809, 0.6},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := utils.HaversineDistance(center.Lat, center.Lng, tt.lat, center.Lng)
				assert.InDelta(t, tt.expected, d, 0.005)
			})
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := utils.HaversineDistance(50.0755, 14.4378, 48.8566, 2.3522)
		d2 := utils.HaversineDistance(48.8566, 2.3522, 50.0755, 14.4378)
		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("Prague to Paris around 885 km", func(t *testing.T) {
		d := utils.HaversineDistance(50.0755, 14.4378, 48.8566, 2.3522)
		assert.InDelta(t, 885.0, d, 10.0)
	})
}

func TestBoundingBox(t *testing.T) {
	center := domain.Point{Lat: 50.0755, Lng: 14.4378}

	t.Run("contains every point within the radius", func(t *testing.T) {
		bbox := utils.BoundingBox(center, 5.0)

		// A point 5 km due north sits well inside the inflated box
		assert.Greater(t, bbox.MaxLat, center.Lat+5.0/111.0)
		assert.Less(t, bbox.MinLat, center.Lat-5.0/111.0)
		assert.Greater(t, bbox.MaxLng, center.Lng)
		assert.Less(t, bbox.MinLng, center.Lng)
	})

	t.Run("inflated over naive degree conversion", func(t *testing.T) {
		bbox := utils.BoundingBox(center, 10.0)

		naiveLatDelta := 10.0 / 111.0
		assert.Greater(t, bbox.MaxLat-center.Lat, naiveLatDelta)
	})

	t.Run("longitude delta grows with latitude", func(t *testing.T) {
		equator := utils.BoundingBox(domain.Point{Lat: 0, Lng: 14.0}, 5.0)
		north := utils.BoundingBox(domain.Point{Lat: 60.0, Lng: 14.0}, 5.0)

		assert.Greater(t, north.MaxLng-14.0, equator.MaxLng-14.0)
	})

	t.Run("near pole the box stays finite", func(t *testing.T) {
		bbox := utils.BoundingBox(domain.Point{Lat: 89.9, Lng: 0}, 5.0)

		assert.False(t, bbox.MaxLng-bbox.MinLng > 360*2)
		assert.Greater(t, bbox.MaxLng, bbox.MinLng)
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		ok       bool
	}{
		{"plain decimal", "50.0755", 50.0755, true},
		{"comma as decimal separator", "50,0755", 50.0755, true},
		{"surrounding whitespace", "  14.4378  ", 14.4378, true},
		{"negative", "-33.8688", -33.8688, true},
		{"integer", "42", 42.0, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"garbage", "abc", 0, false},
		{"NaN rejected", "NaN", 0, false},
		{"Inf rejected", "Inf", 0, false},
		{"negative Inf rejected", "-Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := utils.ParseNumber(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, v)
			}
		})
	}
}

func TestIsNullIsland(t *testing.T) {
	assert.True(t, utils.IsNullIsland(0, 0))
	assert.False(t, utils.IsNullIsland(0, 14.4378))
	assert.False(t, utils.IsNullIsland(50.0755, 0))
	assert.False(t, utils.IsNullIsland(0.0001, 0.0001))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, utils.ValidateCoordinates(50.0755, 14.4378))
	assert.True(t, utils.ValidateCoordinates(-90, -180))
	assert.True(t, utils.ValidateCoordinates(90, 180))
	assert.False(t, utils.ValidateCoordinates(90.0001, 0))
	assert.False(t, utils.ValidateCoordinates(-90.0001, 0))
	assert.False(t, utils.ValidateCoordinates(0, 180.0001))
	assert.False(t, utils.ValidateCoordinates(0, -180.0001))
}

func TestValidateRadius(t *testing.T) {
	assert.False(t, utils.ValidateRadius(0))
	assert.False(t, utils.ValidateRadius(-1))
	assert.True(t, utils.ValidateRadius(0.1))
	assert.True(t, utils.ValidateRadius(50))
	assert.False(t, utils.ValidateRadius(50.0001))
}

func TestRoundDistance(t *testing.T) {
	assert.Equal(t, 0.1, utils.RoundDistance(0.10008))
	assert.Equal(t, 0.4, utils.RoundDistance(0.4003))
	assert.Equal(t, 1.23, utils.RoundDistance(1.2349))
	assert.Equal(t, 1.24, utils.RoundDistance(1.2351))
	assert.Equal(t, 0.0, utils.RoundDistance(0))
}
