package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	points := []Point{
		{Lat: 0, Lng: 0},
		{Lat: 52.5, Lng: 13.4},
		{Lat: -33.86, Lng: 151.21},
		{Lat: 90, Lng: 0},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, DistanceMeters(p.Lat, p.Lng, p.Lat, p.Lng))
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := Point{Lat: 52.5, Lng: 13.4}
	b := Point{Lat: 48.137, Lng: 11.575}

	assert.Equal(t, a.DistanceTo(b), b.DistanceTo(a))
	assert.Equal(t, DistanceMeters(a.Lat, a.Lng, b.Lat, b.Lng), DistanceMeters(b.Lat, b.Lng, a.Lat, a.Lng))
}

func TestDistanceMeters_OneDegreeAtEquator(t *testing.T) {
	d := DistanceMeters(0, 0, 0, 1)
	assert.InEpsilon(t, 111195.0, d, 0.01)
}

func TestDistanceMeters_KnownCities(t *testing.T) {
	// Berlin to Munich is roughly 504 km.
	d := DistanceMeters(52.5200, 13.4050, 48.1351, 11.5820)
	assert.InEpsilon(t, 504000.0, d, 0.01)
}

func TestDistanceMeters_Antipodal(t *testing.T) {
	d := DistanceMeters(0, 0, 0, 180)
	assert.False(t, math.IsNaN(d))
	assert.InEpsilon(t, EarthRadiusMeters*math.Pi, d, 1e-9)
}
