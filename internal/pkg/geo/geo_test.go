package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeodesic(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lng1     float64
		lat2     float64
		lng2     float64
		expected float64
		delta    float64
	}{
		{name: "coincident points", lat1: 25.0339, lng1: 121.5645, lat2: 25.0339, lng2: 121.5645, expected: 0, delta: 0},
		{name: "taipei 101 to memorial hall", lat1: 25.0339, lng1: 121.5645, lat2: 25.0347, lng2: 121.5217, expected: 4320.37, delta: 0.5},
		{name: "quarter of equator", lat1: 0, lng1: 0, lat2: 0, lng2: 90, expected: 10018754.17, delta: 0.5},
		{name: "pole to pole", lat1: 90, lng1: 0, lat2: -90, lng2: 0, expected: MaxGeodesicMeters, delta: 0.5},
		{name: "same pole different longitudes", lat1: 90, lng1: 0, lat2: 90, lng2: 50, expected: 0, delta: 1e-6},
		{name: "antimeridian is the same meridian", lat1: 10, lng1: -180, lat2: 10, lng2: 180, expected: 0, delta: 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Geodesic(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expected, got, tt.delta)
		})
	}
}

func TestGeodesic_Antipodal(t *testing.T) {
	pairs := [][4]float64{
		{0, 0, 0, 180},
		{45, 10, -45, -170},
		{-33.8688, 151.2093, 33.8688, -28.7907},
	}

	for _, p := range pairs {
		got := Geodesic(p[0], p[1], p[2], p[3])
		assert.InDelta(t, MaxGeodesicMeters, got, 0.01, "%v", p)
	}
}

func TestGeodesic_NearlyAntipodal(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lng1     float64
		lat2     float64
		lng2     float64
		expected float64
	}{
		// эталон: Karney, Algorithms for geodesics (2013), обратная задача
		{name: "karney reference", lat1: -30, lng1: 0, lat2: 29.9, lng2: 179.8, expected: 19989832.8276},
		{name: "off the equator", lat1: 0, lng1: 0, lat2: 0.5, lng2: 179.7, expected: 19944127.4208},
		{name: "mirrored latitudes", lat1: 10, lng1: 0, lat2: -10, lng2: 179.8, expected: 20000239.4377},
		{name: "equator beyond the lift-off point", lat1: 0, lng1: 0, lat2: 0, lng2: 179.5, expected: 19980861.9089},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Geodesic(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expected, got, 0.01)
			assert.Less(t, got, MaxGeodesicMeters)
		})
	}
}

func TestGeodesic_Symmetric(t *testing.T) {
	a := Geodesic(25.0340, 121.5640, 25.1023, 121.5487)
	b := Geodesic(25.1023, 121.5487, 25.0340, 121.5640)
	assert.InDelta(t, a, b, 1e-6)
}

func TestGeodesic_CloseToHaversine(t *testing.T) {
	// на коротких дистанциях эллипсоид и сфера расходятся меньше чем на 0.5%
	g := Geodesic(25.0340, 121.5640, 25.1023, 121.5487)
	h := Haversine(25.0340, 121.5640, 25.1023, 121.5487)
	assert.InEpsilon(t, g, h, 0.005)
}

func TestPlanarDistance(t *testing.T) {
	assert.InDelta(t, 5.0, PlanarDistance(0, 0, 3, 4), 1e-12)
	assert.InDelta(t, 25.0, PlanarDistanceSq(0, 0, 3, 4), 1e-12)
	assert.Zero(t, PlanarDistance(1, 1, 1, 1))
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(90, 180))
	assert.True(t, ValidCoordinates(-90, -180))
	assert.False(t, ValidCoordinates(90.0001, 0))
	assert.False(t, ValidCoordinates(0, -180.0001))
}
