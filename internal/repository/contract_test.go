package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tsadityaa/BrowseCart/internal/models"
)

var (
	queryPoint = models.Position{Latitude: 40.7128, Longitude: -74.0060}
	queensShop = models.Position{Latitude: 40.730, Longitude: -73.935}
	bostonShop = models.Position{Latitude: 42.3601, Longitude: -71.0589}
)

var baseTime = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newShop(name, description string, pos models.Position, created time.Time, items ...models.Item) *models.Shop {
	s := &models.Shop{
		Name:        name,
		Description: description,
		Address:     "1 Test Street",
		Items:       items,
		IsOpen:      true,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if s.Items == nil {
		s.Items = []models.Item{}
	}
	s.SetPosition(pos)
	return s
}

func item(name string, qty int) models.Item {
	return models.Item{ID: primitive.NewObjectID(), Name: name, Quantity: qty}
}

func names(shops []models.Shop) []string {
	out := make([]string, 0, len(shops))
	for _, s := range shops {
		out = append(out, s.Name)
	}
	return out
}

// runShopRepositoryContract exercises the behaviour every ShopRepository
// backend must share. repo must start empty.
func runShopRepositoryContract(t *testing.T, repo ShopRepository) {
	ctx := context.Background()

	t.Run("create and get keeps item order", func(t *testing.T) {
		shop := newShop("Order Check", "Items in order", queryPoint, baseTime,
			item("Apples", 3), item("Bread", 0), item("Cheese", 12))
		require.NoError(t, repo.Create(ctx, shop))
		require.False(t, shop.ID.IsZero())

		got, err := repo.Get(ctx, shop.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 3)
		for i := range shop.Items {
			assert.Equal(t, shop.Items[i].Name, got.Items[i].Name)
			assert.Equal(t, shop.Items[i].Quantity, got.Items[i].Quantity)
			assert.Equal(t, shop.Items[i].ID, got.Items[i].ID)
		}
		assert.Equal(t, shop.Position, got.Position)
		assert.Equal(t, shop.Location.Coordinates, got.Location.Coordinates)
		assert.True(t, shop.CreatedAt.Equal(got.CreatedAt))

		require.NoError(t, repo.Delete(ctx, shop.ID))
	})

	t.Run("missing ids report not found", func(t *testing.T) {
		missing := primitive.NewObjectID()

		_, err := repo.Get(ctx, missing)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, missing), ErrNotFound)

		ghost := newShop("Ghost", "Never stored", queryPoint, baseTime)
		ghost.ID = missing
		assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
	})

	t.Run("update replaces fields and items", func(t *testing.T) {
		shop := newShop("Before", "Original", queryPoint, baseTime, item("Old", 1))
		require.NoError(t, repo.Create(ctx, shop))

		shop.Name = "After"
		shop.IsOpen = false
		shop.Items = []models.Item{item("New", 5), item("Newer", 6)}
		shop.SetPosition(queensShop)
		shop.UpdatedAt = baseTime.Add(time.Hour)
		require.NoError(t, repo.Update(ctx, shop))

		got, err := repo.Get(ctx, shop.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", got.Name)
		assert.False(t, got.IsOpen)
		assert.Equal(t, []string{"New", "Newer"}, []string{got.Items[0].Name, got.Items[1].Name})
		assert.Equal(t, queensShop, got.Position)

		require.NoError(t, repo.Delete(ctx, shop.ID))
		_, err = repo.Get(ctx, shop.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("queries", func(t *testing.T) {
		fixtures := []*models.Shop{
			newShop("Downtown Deli", "Sandwiches", queryPoint, baseTime),
			newShop("Queens Corner", "Family Bakery and cafe", queensShop, baseTime.Add(time.Hour)),
			newShop("Boston Oven", "We bake bread", bostonShop, baseTime.Add(2*time.Hour), item("Sourdough", 2)),
			newShop("Hardware Hub", "Tools", queryPoint, baseTime.Add(3*time.Hour), item("Olive Oil Can", 1)),
		}
		fixtures[3].Category = "C++ Books"
		for _, s := range fixtures {
			require.NoError(t, repo.Create(ctx, s))
		}
		t.Cleanup(func() {
			for _, s := range fixtures {
				_ = repo.Delete(ctx, s.ID)
			}
		})

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Hardware Hub", "Boston Oven", "Queens Corner", "Downtown Deli"}, names(all))

		near, err := repo.Nearby(ctx, models.NearbyQuery{Center: queryPoint, RadiusKm: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"Hardware Hub", "Queens Corner", "Downtown Deli"}, names(near))

		near, err = repo.Nearby(ctx, models.NearbyQuery{Center: queryPoint, RadiusKm: 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"Hardware Hub", "Downtown Deli"}, names(near))

		found, err := repo.Search(ctx, "bakery")
		require.NoError(t, err)
		assert.Equal(t, []string{"Queens Corner"}, names(found))

		found, err = repo.Search(ctx, "SOURDOUGH")
		require.NoError(t, err)
		assert.Equal(t, []string{"Boston Oven"}, names(found))

		found, err = repo.Search(ctx, "c++")
		require.NoError(t, err)
		assert.Equal(t, []string{"Hardware Hub"}, names(found))

		found, err = repo.Search(ctx, "100%")
		require.NoError(t, err)
		assert.Empty(t, found)
		assert.NotNil(t, found)
	})

	t.Run("list by creator", func(t *testing.T) {
		mine := []*models.Shop{
			newShop("First Stall", "Mine", queryPoint, baseTime),
			newShop("Second Stall", "Mine too", bostonShop, baseTime.Add(time.Hour)),
		}
		other := newShop("Their Stall", "Someone else", queryPoint, baseTime.Add(2*time.Hour))
		anon := newShop("Nobody's Stall", "Anonymous", queryPoint, baseTime.Add(3*time.Hour))
		for _, s := range mine {
			s.CreatedBy = "user-a"
		}
		other.CreatedBy = "user-b"
		for _, s := range append(mine, other, anon) {
			require.NoError(t, repo.Create(ctx, s))
		}
		t.Cleanup(func() {
			for _, s := range append(mine, other, anon) {
				_ = repo.Delete(ctx, s.ID)
			}
		})

		got, err := repo.ListByCreator(ctx, "user-a")
		require.NoError(t, err)
		assert.Equal(t, []string{"Second Stall", "First Stall"}, names(got))

		got, err = repo.ListByCreator(ctx, "user-c")
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})
}
