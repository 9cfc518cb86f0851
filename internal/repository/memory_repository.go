package repository

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tsadityaa/BrowseCart/internal/geo"
	"github.com/tsadityaa/BrowseCart/internal/models"
)

// MemoryShopRepository keeps shops in process memory. It backs the tests and
// STORE_BACKEND=memory.
type MemoryShopRepository struct {
	mu    sync.RWMutex
	shops map[primitive.ObjectID]models.Shop
}

func NewMemoryShopRepository() *MemoryShopRepository {
	return &MemoryShopRepository{shops: make(map[primitive.ObjectID]models.Shop)}
}

func (r *MemoryShopRepository) snapshot() []models.Shop {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		out = append(out, s.Clone())
	}
	return out
}

func (r *MemoryShopRepository) List(ctx context.Context) ([]models.Shop, error) {
	shops := r.snapshot()
	sortNewestFirstByID(shops)
	return shops, nil
}

func (r *MemoryShopRepository) Nearby(ctx context.Context, q models.NearbyQuery) ([]models.Shop, error) {
	shops := r.snapshot()
	sortNewestFirstByID(shops)
	return geo.FilterNearby(shops, q), nil
}

func (r *MemoryShopRepository) Search(ctx context.Context, term string) ([]models.Shop, error) {
	shops := r.snapshot()
	sortNewestFirstByID(shops)

	out := make([]models.Shop, 0)
	for _, s := range shops {
		if s.Matches(term) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MemoryShopRepository) ListByCreator(ctx context.Context, userID string) ([]models.Shop, error) {
	shops := r.snapshot()
	sortNewestFirstByID(shops)

	out := make([]models.Shop, 0)
	for _, s := range shops {
		if s.CreatedBy == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MemoryShopRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shops[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := s.Clone()
	return &clone, nil
}

func (r *MemoryShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if shop.ID.IsZero() {
		shop.ID = primitive.NewObjectID()
	}
	if _, exists := r.shops[shop.ID]; exists {
		return ErrDuplicate
	}
	r.shops[shop.ID] = shop.Clone()
	return nil
}

func (r *MemoryShopRepository) Update(ctx context.Context, shop *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[shop.ID]; !ok {
		return ErrNotFound
	}
	r.shops[shop.ID] = shop.Clone()
	return nil
}

func (r *MemoryShopRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[id]; !ok {
		return ErrNotFound
	}
	delete(r.shops, id)
	return nil
}

func (r *MemoryShopRepository) Ping(ctx context.Context) error {
	return nil
}

// sortNewestFirstByID orders by creation time, ties broken by descending
// ObjectID so that map iteration order never leaks into results.
func sortNewestFirstByID(shops []models.Shop) {
	sort.Slice(shops, func(i, j int) bool {
		return newer(shops[i], shops[j])
	})
}

func newer(a, b models.Shop) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.Hex() > b.ID.Hex()
}

type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]models.User
	byEmail map[string]primitive.ObjectID
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[primitive.ObjectID]models.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return ErrDuplicate
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := r.users[id]
	return &u, nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
