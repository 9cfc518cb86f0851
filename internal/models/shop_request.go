package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ItemRequest struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=0"`
}

// CreateShopRequest is the body of POST /api/shops. The location may be sent
// either as GeoJSON or as a latitude/longitude pair; one of them is required.
type CreateShopRequest struct {
	Name         string         `json:"name" validate:"required"`
	Description  string         `json:"description" validate:"required"`
	Address      string         `json:"address" validate:"required"`
	Location     *GeoPoint      `json:"location" validate:"required_without=Position"`
	Position     *PositionInput `json:"position" validate:"required_without=Location"`
	PosterURL    *string        `json:"posterUrl"`
	Items        []ItemRequest  `json:"items" validate:"dive"`
	Owner        string         `json:"owner"`
	Phone        string         `json:"phone"`
	Email        string         `json:"email"`
	OpeningHours string         `json:"openingHours"`
	Category     string         `json:"category"`
	CreatedBy    string         `json:"createdBy"`
	IsOpen       *bool          `json:"isOpen"`
}

func (r *CreateShopRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Address = strings.TrimSpace(r.Address)
	r.Owner = strings.TrimSpace(r.Owner)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Category = strings.TrimSpace(r.Category)
	for i := range r.Items {
		r.Items[i].Name = strings.TrimSpace(r.Items[i].Name)
	}
}

// Validate trims the text fields, checks the struct tags and resolves the
// location. It returns the resolved position.
func (r *CreateShopRequest) Validate() (Position, error) {
	r.normalize()
	if err := validateStruct(r); err != nil {
		return Position{}, err
	}
	if err := validateItems(r.Items); err != nil {
		return Position{}, err
	}
	return resolvePosition(r.Location, r.Position)
}

// ToShop builds the document to persist. Validate must have succeeded.
func (r *CreateShopRequest) ToShop(pos Position, now time.Time) Shop {
	shop := Shop{
		Name:         r.Name,
		Description:  r.Description,
		Address:      r.Address,
		PosterURL:    nonEmpty(r.PosterURL),
		Items:        buildItems(r.Items),
		Owner:        r.Owner,
		Phone:        r.Phone,
		Email:        r.Email,
		OpeningHours: r.OpeningHours,
		Category:     r.Category,
		CreatedBy:    r.CreatedBy,
		IsOpen:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if r.IsOpen != nil {
		shop.IsOpen = *r.IsOpen
	}
	shop.SetPosition(pos)
	return shop
}

// UpdateShopRequest is the body of PUT /api/shops/{id}. Only fields present
// in the body are applied. createdBy is fixed at creation and not accepted.
type UpdateShopRequest struct {
	Name         *string        `json:"name" validate:"omitempty,min=1"`
	Description  *string        `json:"description" validate:"omitempty,min=1"`
	Address      *string        `json:"address" validate:"omitempty,min=1"`
	Location     *GeoPoint      `json:"location"`
	Position     *PositionInput `json:"position"`
	PosterURL    *string        `json:"posterUrl"`
	Items        []ItemRequest  `json:"items" validate:"omitempty,dive"`
	Owner        *string        `json:"owner"`
	Phone        *string        `json:"phone"`
	Email        *string        `json:"email"`
	OpeningHours *string        `json:"openingHours"`
	Category     *string        `json:"category"`
	IsOpen       *bool          `json:"isOpen"`
}

func (r *UpdateShopRequest) normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(r.Name)
	trim(r.Description)
	trim(r.Address)
	trim(r.Owner)
	trim(r.Phone)
	trim(r.Category)
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	for i := range r.Items {
		r.Items[i].Name = strings.TrimSpace(r.Items[i].Name)
	}
}

// Validate checks the partial update. The returned position is nil when the
// update leaves the location untouched.
func (r *UpdateShopRequest) Validate() (*Position, error) {
	r.normalize()
	if err := validateStruct(r); err != nil {
		return nil, err
	}
	if err := validateItems(r.Items); err != nil {
		return nil, err
	}
	if r.Location == nil && r.Position == nil {
		return nil, nil
	}
	pos, err := resolvePosition(r.Location, r.Position)
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

// ApplyTo merges the update into shop. pos is the value returned by Validate.
func (r *UpdateShopRequest) ApplyTo(shop *Shop, pos *Position, now time.Time) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&shop.Name, r.Name)
	set(&shop.Description, r.Description)
	set(&shop.Address, r.Address)
	set(&shop.Owner, r.Owner)
	set(&shop.Phone, r.Phone)
	set(&shop.Email, r.Email)
	set(&shop.OpeningHours, r.OpeningHours)
	set(&shop.Category, r.Category)

	if r.PosterURL != nil {
		shop.PosterURL = nonEmpty(r.PosterURL)
	}
	if r.Items != nil {
		shop.Items = buildItems(r.Items)
	}
	if r.IsOpen != nil {
		shop.IsOpen = *r.IsOpen
	}
	if pos != nil {
		shop.SetPosition(*pos)
	}
	shop.UpdatedAt = now
}

func resolvePosition(loc *GeoPoint, pos *PositionInput) (Position, error) {
	if loc != nil {
		return loc.Position()
	}
	if pos != nil {
		return pos.Position()
	}
	return Position{}, invalidf("location is required")
}

func validateItems(items []ItemRequest) error {
	for i, item := range items {
		if item.ID == "" {
			continue
		}
		if _, err := primitive.ObjectIDFromHex(item.ID); err != nil {
			return invalidf("items[%d]._id is not a valid identifier", i)
		}
	}
	return nil
}

func buildItems(reqs []ItemRequest) []Item {
	items := make([]Item, 0, len(reqs))
	for _, req := range reqs {
		item := Item{Name: req.Name}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if id, err := primitive.ObjectIDFromHex(req.ID); err == nil {
			item.ID = id
		} else {
			item.ID = primitive.NewObjectID()
		}
		items = append(items, item)
	}
	return items
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
