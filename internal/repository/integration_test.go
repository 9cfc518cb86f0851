package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tsadityaa/BrowseCart/internal/db"
	"github.com/tsadityaa/BrowseCart/internal/models"
)

func getMongoDatabase(t *testing.T) *mongo.Database {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	name := fmt.Sprintf("browsecart_test_%d", time.Now().UnixNano())
	client, database, err := db.InitMongo(ctx, uri, name, zerolog.Nop())
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	require.NoError(t, db.EnsureIndexes(ctx, database, zerolog.Nop()))

	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return database
}

func getMySQL(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	database, err := db.InitDB(ctx, dsn, zerolog.Nop())
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	require.NoError(t, db.RunMigrations(ctx, database, zerolog.Nop()))
	for _, table := range []string{"shop_items", "shops", "users"} {
		_, err := database.ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}

	t.Cleanup(func() { database.Close() })
	return database
}

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestMongoShopRepository_Contract(t *testing.T) {
	database := getMongoDatabase(t)
	runShopRepositoryContract(t, NewMongoShopRepository(database))
}

func TestMongoUserRepository_Duplicate(t *testing.T) {
	database := getMongoDatabase(t)
	repo := NewMongoUserRepository(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "dup@example.com", Name: "A", CreatedAt: baseTime}))
	err := repo.Create(ctx, &models.User{Email: "dup@example.com", Name: "B", CreatedAt: baseTime})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMySQLShopRepository_Contract(t *testing.T) {
	database := getMySQL(t)
	runShopRepositoryContract(t, NewMySQLShopRepository(database, zerolog.Nop()))
}

func TestMySQLUserRepository(t *testing.T) {
	database := getMySQL(t)
	repo := NewMySQLUserRepository(database, zerolog.Nop())
	ctx := context.Background()

	user := &models.User{Email: "sql@example.com", Name: "Sql", Password: "x", CreatedAt: baseTime}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "sql@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	assert.ErrorIs(t, repo.Create(ctx, &models.User{Email: "sql@example.com", Name: "Again", CreatedAt: baseTime}), ErrDuplicate)
}

func TestCachedShopRepository(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()

	backing := NewMemoryShopRepository()
	repo := NewCachedShopRepository(backing, client, time.Minute, zerolog.Nop())

	shop := newShop("Cached Cafe", "Coffee", queryPoint, baseTime, item("Latte", 3))
	require.NoError(t, repo.Create(ctx, shop))
	t.Cleanup(func() { client.Del(context.Background(), shopCacheKey(shop.ID)) })

	first, err := repo.Get(ctx, shop.ID)
	require.NoError(t, err)

	raw, err := client.Get(ctx, shopCacheKey(shop.ID)).Bytes()
	require.NoError(t, err)
	var cached models.Shop
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, first.Name, cached.Name)

	shop.Name = "Renamed Cafe"
	require.NoError(t, repo.Update(ctx, shop))

	second, err := repo.Get(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Cafe", second.Name)

	require.NoError(t, repo.Delete(ctx, shop.ID))
	_, err = repo.Get(ctx, shop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
