package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsadityaa/BrowseCart/internal/models"
)

var (
	lowerManhattan = models.Position{Latitude: 40.7128, Longitude: -74.0060}
	longIslandCity = models.Position{Latitude: 40.730, Longitude: -73.935}
)

func shopAt(name string, p models.Position, created time.Time) models.Shop {
	s := models.Shop{Name: name, CreatedAt: created}
	s.SetPosition(p)
	return s
}

func TestDistanceKm(t *testing.T) {
	d := DistanceKm(lowerManhattan, longIslandCity)
	assert.InDelta(t, 6.29, d, 0.05)
	assert.InDelta(t, d, DistanceKm(longIslandCity, lowerManhattan), 1e-9)
	assert.Equal(t, 0.0, DistanceKm(lowerManhattan, lowerManhattan))

	// 0.01 degrees of latitude is roughly 1.1 km anywhere on the sphere.
	north := models.Position{Latitude: 40.7228, Longitude: -74.0060}
	assert.InDelta(t, 1.113, DistanceKm(lowerManhattan, north), 0.005)
}

func TestWithin_Scenario(t *testing.T) {
	assert.True(t, Within(lowerManhattan, longIslandCity, 10))
	assert.False(t, Within(lowerManhattan, longIslandCity, 5))
	assert.True(t, Within(lowerManhattan, lowerManhattan, 0))
}

func TestWithin_HighLatitude(t *testing.T) {
	// At 70°N a 0.05° longitude step is well under 2 km even though it
	// exceeds a 0.02° planar threshold.
	center := models.Position{Latitude: 70, Longitude: 20}
	east := models.Position{Latitude: 70, Longitude: 20.05}

	assert.Less(t, DistanceKm(center, east), 2.0)
	assert.True(t, Within(center, east, 2))
}

func TestFilterNearby(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	shops := []models.Shop{
		shopAt("old-near", lowerManhattan, base),
		shopAt("far", models.Position{Latitude: 42.3601, Longitude: -71.0589}, base.Add(3*time.Hour)),
		shopAt("new-near", longIslandCity, base.Add(2*time.Hour)),
		shopAt("tie-a", lowerManhattan, base.Add(time.Hour)),
		shopAt("tie-b", lowerManhattan, base.Add(time.Hour)),
	}

	got := FilterNearby(shops, models.NearbyQuery{Center: lowerManhattan, RadiusKm: 10})

	names := make([]string, 0, len(got))
	for _, s := range got {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"new-near", "tie-a", "tie-b", "old-near"}, names)

	got = FilterNearby(shops, models.NearbyQuery{Center: lowerManhattan, RadiusKm: 5})
	require.Len(t, got, 3)
	for _, s := range got {
		assert.NotEqual(t, "new-near", s.Name)
	}
}

func TestFilterNearby_Empty(t *testing.T) {
	got := FilterNearby(nil, models.NearbyQuery{Center: lowerManhattan, RadiusKm: 2})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchBox_ContainsCircle(t *testing.T) {
	box := SearchBox(lowerManhattan, 10)
	require.False(t, box.FullLongitude)

	assert.Less(t, box.MinLat, longIslandCity.Latitude)
	assert.Greater(t, box.MaxLat, longIslandCity.Latitude)
	assert.Less(t, box.MinLng, longIslandCity.Longitude)
	assert.Greater(t, box.MaxLng, longIslandCity.Longitude)

	// Points exactly radius away along each axis must lie inside the box.
	assert.LessOrEqual(t, box.MinLat, lowerManhattan.Latitude-10/111.4)
	assert.GreaterOrEqual(t, box.MaxLat, lowerManhattan.Latitude+10/111.4)
}

func TestSearchBox_Wraps(t *testing.T) {
	nearPole := SearchBox(models.Position{Latitude: 89.99, Longitude: 0}, 50)
	assert.True(t, nearPole.FullLongitude)
	assert.Equal(t, 90.0, nearPole.MaxLat)

	antimeridian := SearchBox(models.Position{Latitude: 0, Longitude: 179.99}, 50)
	assert.True(t, antimeridian.FullLongitude)
	assert.Equal(t, -180.0, antimeridian.MinLng)
	assert.Equal(t, 180.0, antimeridian.MaxLng)
}

func TestMovedBeyond(t *testing.T) {
	slightly := models.Position{Latitude: 40.7130, Longitude: -74.0061}
	farther := models.Position{Latitude: 40.7300, Longitude: -74.0060}

	assert.False(t, MovedBeyond(lowerManhattan, slightly, 1.1))
	assert.True(t, MovedBeyond(lowerManhattan, farther, 1.1))
}

func TestRadiusRadians(t *testing.T) {
	assert.InDelta(t, 2/6378.137, RadiusRadians(2), 1e-12)
	assert.Equal(t, 0.0, RadiusRadians(0))
}
