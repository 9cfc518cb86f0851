package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const GeoJSONPoint = "Point"

// GeoPoint is the GeoJSON form of a location, coordinates ordered [lng, lat].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"len=2"`
}

// Position is the {latitude, longitude} view of a location used by clients.
type Position struct {
	Latitude  float64 `json:"latitude" bson:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" bson:"longitude" validate:"gte=-180,lte=180"`
}

// PositionInput is the request-side position. Both fields are pointers so a
// missing coordinate is rejected instead of decoding to zero.
type PositionInput struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// Input returns p in request form.
func (p Position) Input() *PositionInput {
	lat, lng := p.Latitude, p.Longitude
	return &PositionInput{Latitude: &lat, Longitude: &lng}
}

// Position checks that both coordinates are present and in range.
func (in PositionInput) Position() (Position, error) {
	if in.Latitude == nil {
		return Position{}, invalidf("position.latitude is required")
	}
	if in.Longitude == nil {
		return Position{}, invalidf("position.longitude is required")
	}
	p := Position{Latitude: *in.Latitude, Longitude: *in.Longitude}
	return p, p.Check()
}

func (p Position) GeoPoint() GeoPoint {
	return GeoPoint{Type: GeoJSONPoint, Coordinates: []float64{p.Longitude, p.Latitude}}
}

// Position converts the GeoJSON pair back into latitude/longitude.
func (g GeoPoint) Position() (Position, error) {
	if g.Type != "" && g.Type != GeoJSONPoint {
		return Position{}, invalidf("location.type must be %q", GeoJSONPoint)
	}
	if len(g.Coordinates) != 2 {
		return Position{}, invalidf("Coordinates must contain exactly 2 numbers [longitude, latitude]")
	}
	p := Position{Longitude: g.Coordinates[0], Latitude: g.Coordinates[1]}
	return p, p.Check()
}

func (p Position) Check() error {
	if !finite(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return invalidf("Latitude must be between -90 and 90")
	}
	if !finite(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return invalidf("Longitude must be between -180 and 180")
	}
	return nil
}

type Item struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Name     string             `json:"name" bson:"name"`
	Quantity int                `json:"quantity" bson:"quantity"`
}

type Shop struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description" bson:"description"`
	Address      string             `json:"address" bson:"address"`
	Location     GeoPoint           `json:"location" bson:"location"`
	Position     Position           `json:"position" bson:"position"`
	PosterURL    *string            `json:"posterUrl" bson:"posterUrl"`
	Items        []Item             `json:"items" bson:"items"`
	Owner        string             `json:"owner" bson:"owner"`
	Phone        string             `json:"phone" bson:"phone"`
	Email        string             `json:"email" bson:"email"`
	OpeningHours string             `json:"openingHours" bson:"openingHours"`
	Category     string             `json:"category" bson:"category"`
	CreatedBy    string             `json:"createdBy" bson:"createdBy"`
	IsOpen       bool               `json:"isOpen" bson:"isOpen"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SetPosition keeps the GeoJSON location and the lat/lng view in step.
func (s *Shop) SetPosition(p Position) {
	s.Position = p
	s.Location = p.GeoPoint()
}

// Matches reports whether term occurs, case-insensitively, in the shop's
// name, description, category or any item name.
func (s *Shop) Matches(term string) bool {
	needle := strings.ToLower(term)
	if needle == "" {
		return false
	}
	fields := []string{s.Name, s.Description, s.Category}
	for _, item := range s.Items {
		fields = append(fields, item.Name)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so stores can hand out shops without sharing
// the items slice.
func (s Shop) Clone() Shop {
	out := s
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	if s.Location.Coordinates != nil {
		out.Location.Coordinates = append([]float64(nil), s.Location.Coordinates...)
	}
	if s.PosterURL != nil {
		poster := *s.PosterURL
		out.PosterURL = &poster
	}
	return out
}
