package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tsadityaa/BrowseCart/internal/geo"
	"github.com/tsadityaa/BrowseCart/internal/models"
)

const mysqlDuplicateEntry = 1062

const shopColumns = `s.id, s.name, s.description, s.address, s.latitude, s.longitude, s.poster_url,
	s.owner, s.phone, s.email, s.opening_hours, s.category, s.created_by, s.is_open,
	s.created_at, s.updated_at`

// MySQLShopRepository stores shops in the shops table and their items, in
// order, in shop_items.
type MySQLShopRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMySQLShopRepository(db *sql.DB, logger zerolog.Logger) *MySQLShopRepository {
	return &MySQLShopRepository{db: db, logger: logger}
}

func (r *MySQLShopRepository) List(ctx context.Context) ([]models.Shop, error) {
	return r.query(ctx, `SELECT `+shopColumns+` FROM shops s ORDER BY s.created_at DESC, s.id DESC`)
}

// Nearby narrows candidates with an indexed bounding box and then applies
// the great-circle test.
func (r *MySQLShopRepository) Nearby(ctx context.Context, q models.NearbyQuery) ([]models.Shop, error) {
	box := geo.SearchBox(q.Center, q.RadiusKm)

	where := `s.latitude BETWEEN ? AND ?`
	args := []interface{}{box.MinLat, box.MaxLat}
	if !box.FullLongitude {
		where += ` AND s.longitude BETWEEN ? AND ?`
		args = append(args, box.MinLng, box.MaxLng)
	}

	candidates, err := r.scanShops(ctx, `SELECT `+shopColumns+` FROM shops s WHERE `+where+
		` ORDER BY s.created_at DESC, s.id DESC`, args...)
	if err != nil {
		return nil, err
	}

	shops := geo.FilterNearby(candidates, q)
	if err := r.loadItems(ctx, shops); err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *MySQLShopRepository) Search(ctx context.Context, term string) ([]models.Shop, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return r.query(ctx, `SELECT `+shopColumns+` FROM shops s
		WHERE LOWER(s.name) LIKE ?
			OR LOWER(s.description) LIKE ?
			OR LOWER(s.category) LIKE ?
			OR EXISTS (SELECT 1 FROM shop_items i WHERE i.shop_id = s.id AND LOWER(i.name) LIKE ?)
		ORDER BY s.created_at DESC, s.id DESC`,
		pattern, pattern, pattern, pattern)
}

func (r *MySQLShopRepository) ListByCreator(ctx context.Context, userID string) ([]models.Shop, error) {
	return r.query(ctx, `SELECT `+shopColumns+` FROM shops s WHERE s.created_by = ?
		ORDER BY s.created_at DESC, s.id DESC`, userID)
}

func (r *MySQLShopRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Shop, error) {
	shops, err := r.query(ctx, `SELECT `+shopColumns+` FROM shops s WHERE s.id = ?`, id.Hex())
	if err != nil {
		return nil, err
	}
	if len(shops) == 0 {
		return nil, ErrNotFound
	}
	return &shops[0], nil
}

func (r *MySQLShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	if shop.ID.IsZero() {
		shop.ID = primitive.NewObjectID()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error starting transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO shops (id, name, description, address, latitude, longitude,
		poster_url, owner, phone, email, opening_hours, category, created_by, is_open, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shop.ID.Hex(), shop.Name, shop.Description, shop.Address, shop.Position.Latitude, shop.Position.Longitude,
		nullString(shop.PosterURL), shop.Owner, shop.Phone, shop.Email, shop.OpeningHours, shop.Category,
		shop.CreatedBy, shop.IsOpen, shop.CreatedAt, shop.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert shop: %w", err)
	}

	if err := insertItems(ctx, tx, shop); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error().Err(err).Str("shop_id", shop.ID.Hex()).Msg("Error committing shop insert")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *MySQLShopRepository) Update(ctx context.Context, shop *models.Shop) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error starting transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE shops SET name = ?, description = ?, address = ?, latitude = ?,
		longitude = ?, poster_url = ?, owner = ?, phone = ?, email = ?, opening_hours = ?, category = ?,
		created_by = ?, is_open = ?, updated_at = ? WHERE id = ?`,
		shop.Name, shop.Description, shop.Address, shop.Position.Latitude, shop.Position.Longitude,
		nullString(shop.PosterURL), shop.Owner, shop.Phone, shop.Email, shop.OpeningHours, shop.Category,
		shop.CreatedBy, shop.IsOpen, shop.UpdatedAt, shop.ID.Hex(),
	)
	if err != nil {
		return fmt.Errorf("failed to update shop: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM shop_items WHERE shop_id = ?`, shop.ID.Hex()); err != nil {
		return fmt.Errorf("failed to replace shop items: %w", err)
	}
	if err := insertItems(ctx, tx, shop); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error().Err(err).Str("shop_id", shop.ID.Hex()).Msg("Error committing shop update")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *MySQLShopRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLShopRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *MySQLShopRepository) query(ctx context.Context, q string, args ...interface{}) ([]models.Shop, error) {
	shops, err := r.scanShops(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, shops); err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *MySQLShopRepository) scanShops(ctx context.Context, q string, args ...interface{}) ([]models.Shop, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer rows.Close()

	shops := make([]models.Shop, 0)
	for rows.Next() {
		var (
			s         models.Shop
			id        string
			pos       models.Position
			posterURL sql.NullString
		)
		err := rows.Scan(&id, &s.Name, &s.Description, &s.Address, &pos.Latitude, &pos.Longitude, &posterURL,
			&s.Owner, &s.Phone, &s.Email, &s.OpeningHours, &s.Category, &s.CreatedBy, &s.IsOpen,
			&s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		if s.ID, err = primitive.ObjectIDFromHex(id); err != nil {
			return nil, fmt.Errorf("corrupt shop id %q: %w", id, err)
		}
		if posterURL.Valid {
			s.PosterURL = &posterURL.String
		}
		s.SetPosition(pos)
		s.Items = []models.Item{}
		shops = append(shops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shops: %w", err)
	}
	return shops, nil
}

// loadItems fills in the items of every shop with a single query.
func (r *MySQLShopRepository) loadItems(ctx context.Context, shops []models.Shop) error {
	if len(shops) == 0 {
		return nil
	}

	index := make(map[string]int, len(shops))
	placeholders := make([]string, 0, len(shops))
	args := make([]interface{}, 0, len(shops))
	for i := range shops {
		hex := shops[i].ID.Hex()
		index[hex] = i
		placeholders = append(placeholders, "?")
		args = append(args, hex)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT shop_id, id, name, quantity FROM shop_items
		WHERE shop_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY shop_id, position`, args...)
	if err != nil {
		return fmt.Errorf("failed to query shop items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			shopID, itemID string
			item           models.Item
		)
		if err := rows.Scan(&shopID, &itemID, &item.Name, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan shop item: %w", err)
		}
		if item.ID, err = primitive.ObjectIDFromHex(itemID); err != nil {
			return fmt.Errorf("corrupt item id %q: %w", itemID, err)
		}
		i := index[shopID]
		shops[i].Items = append(shops[i].Items, item)
	}
	return rows.Err()
}

func insertItems(ctx context.Context, tx *sql.Tx, shop *models.Shop) error {
	for pos, item := range shop.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO shop_items (shop_id, position, id, name, quantity) VALUES (?, ?, ?, ?, ?)`,
			shop.ID.Hex(), pos, item.ID.Hex(), item.Name, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert shop item: %w", err)
		}
	}
	return nil
}

type MySQLUserRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMySQLUserRepository(db *sql.DB, logger zerolog.Logger) *MySQLUserRepository {
	return &MySQLUserRepository{db: db, logger: logger}
}

func (r *MySQLUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID.Hex(), user.Email, user.Password, user.Name, user.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.queryRow(ctx, `SELECT id, email, password, name, created_at FROM users WHERE email = ?`, email)
}

func (r *MySQLUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.queryRow(ctx, `SELECT id, email, password, name, created_at FROM users WHERE id = ?`, id.Hex())
}

func (r *MySQLUserRepository) queryRow(ctx context.Context, q string, arg interface{}) (*models.User, error) {
	var (
		user models.User
		id   string
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(&id, &user.Email, &user.Password, &user.Name, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("Error fetching user")
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", id, err)
	}
	return &user, nil
}

func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
