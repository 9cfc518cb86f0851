// Package geo implements the proximity filter. Every distance in the service,
// whether computed by a store, the client fallback or the location tracker,
// goes through DistanceKm so that nearby results agree across backends.
package geo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/tsadityaa/BrowseCart/internal/models"
)

// EarthRadiusKm is the sphere radius used for great-circle distances.
const EarthRadiusKm = orb.EarthRadius / 1000

func toPoint(p models.Position) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// DistanceKm is the haversine great-circle distance between two positions.
func DistanceKm(a, b models.Position) float64 {
	return geo.DistanceHaversine(toPoint(a), toPoint(b)) / 1000
}

func Within(center, p models.Position, radiusKm float64) bool {
	return DistanceKm(center, p) <= radiusKm
}

// RadiusRadians converts a radius on the surface into the central angle
// expected by MongoDB's $centerSphere.
func RadiusRadians(radiusKm float64) float64 {
	return radiusKm / EarthRadiusKm
}

// FilterNearby keeps the shops within the query radius, newest first.
func FilterNearby(shops []models.Shop, q models.NearbyQuery) []models.Shop {
	out := make([]models.Shop, 0, len(shops))
	for _, s := range shops {
		if Within(q.Center, s.Position, q.RadiusKm) {
			out = append(out, s)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders shops by creation time, descending. Equal
// timestamps keep their input order.
func SortNewestFirst(shops []models.Shop) {
	sort.SliceStable(shops, func(i, j int) bool {
		return shops[i].CreatedAt.After(shops[j].CreatedAt)
	})
}

// MovedBeyond reports whether next is farther than thresholdKm from prev.
func MovedBeyond(prev, next models.Position, thresholdKm float64) bool {
	return DistanceKm(prev, next) > thresholdKm
}

// Box is a latitude/longitude rectangle enclosing a search circle.
// FullLongitude is set when the circle reaches a pole or crosses the
// antimeridian; the longitude bounds are then meaningless.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
	FullLongitude  bool
}

// SearchBox returns the rectangle enclosing every point within radiusKm of
// center. It is a prefilter only; callers still apply Within.
func SearchBox(center models.Position, radiusKm float64) Box {
	b := geo.NewBoundAroundPoint(toPoint(center), radiusKm*1000).Pad(1e-9)

	box := Box{
		MinLat: math.Max(b.Min.Lat(), -90),
		MaxLat: math.Min(b.Max.Lat(), 90),
		MinLng: b.Min.Lon(),
		MaxLng: b.Max.Lon(),
	}

	if b.Min.Lat() <= -90 || b.Max.Lat() >= 90 ||
		math.IsNaN(box.MinLng) || math.IsNaN(box.MaxLng) ||
		box.MinLng < -180 || box.MaxLng > 180 || box.MinLng > box.MaxLng {
		box.MinLng, box.MaxLng = -180, 180
		box.FullLongitude = true
	}
	return box
}
