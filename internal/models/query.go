package models

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tsadityaa/BrowseCart/internal/apperrors"
)

const DefaultRadiusKm = 2.0

// NearbyQuery is a validated proximity request.
type NearbyQuery struct {
	Center   Position
	RadiusKm float64
}

// ParseNearbyQuery validates the raw lat, lng and radius query parameters.
// An empty radius falls back to DefaultRadiusKm.
func ParseNearbyQuery(lat, lng, radius string) (NearbyQuery, error) {
	lat, lng, radius = strings.TrimSpace(lat), strings.TrimSpace(lng), strings.TrimSpace(radius)
	if lat == "" || lng == "" {
		return NearbyQuery{}, apperrors.InvalidArgument("Latitude and longitude are required")
	}

	latitude, errLat := strconv.ParseFloat(lat, 64)
	longitude, errLng := strconv.ParseFloat(lng, 64)
	radiusKm := DefaultRadiusKm
	var errRadius error
	if radius != "" {
		radiusKm, errRadius = strconv.ParseFloat(radius, 64)
	}
	if errLat != nil || errLng != nil || errRadius != nil ||
		!finite(latitude) || !finite(longitude) || !finite(radiusKm) {
		return NearbyQuery{}, apperrors.InvalidArgument("Invalid coordinates or radius")
	}
	if radiusKm < 0 {
		return NearbyQuery{}, apperrors.InvalidArgument("Radius must not be negative")
	}

	center := Position{Latitude: latitude, Longitude: longitude}
	if err := center.Check(); err != nil {
		return NearbyQuery{}, err
	}
	return NearbyQuery{Center: center, RadiusKm: radiusKm}, nil
}

// ParseSearchQuery returns the trimmed search term.
func ParseSearchQuery(q string) (string, error) {
	term := strings.TrimSpace(q)
	if term == "" {
		return "", apperrors.InvalidArgument("Search query is required")
	}
	return term, nil
}

// ParseObjectID parses a hex document id. what names the entity in the
// error message, e.g. "shop".
func ParseObjectID(id, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, apperrors.MalformedIdentifier("Invalid " + what + " ID format")
	}
	return oid, nil
}
