package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsadityaa/BrowseCart/internal/models"
)

func TestMemoryShopRepository_Contract(t *testing.T) {
	runShopRepositoryContract(t, NewMemoryShopRepository())
}

func TestMemoryShopRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShopRepository()

	shop := newShop("Copy Shop", "Prints", queryPoint, baseTime, item("Paper", 10))
	require.NoError(t, repo.Create(ctx, shop))
	shop.Items[0].Name = "mutated after create"

	got, err := repo.Get(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paper", got.Items[0].Name)

	got.Items[0].Quantity = 0
	again, err := repo.Get(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, again.Items[0].Quantity)
}

func TestMemoryShopRepository_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShopRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Create(ctx, newShop("Stall", "Market stall", queryPoint, baseTime))
		}()
	}
	wg.Wait()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &models.User{Email: "ana@example.com", Name: "Ana", Password: "x"}
	require.NoError(t, repo.Create(ctx, user))
	require.False(t, user.ID.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)

	err = repo.Create(ctx, &models.User{Email: "ana@example.com", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
