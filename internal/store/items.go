package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/bakery/internal/model"
)

// ErrNotFound is returned when no item has the requested ID.
var ErrNotFound = errors.New("item not found")

const itemColumns = `id, name, price, description, image_path`

// NewItemID returns a fresh item identifier.
func NewItemID() string {
	return uuid.NewString()
}

// CreateItem inserts a new item and returns the stored row.
// An empty item.ID is replaced with a fresh identifier.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	if item.ID == "" {
		item.ID = NewItemID()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Price, item.Description, item.ImagePath,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, item.ID)
}

// GetItem returns an item by ID, or ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns every item in storage order.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// ItemUpdate carries the fields of a partial update. Nil fields are left
// unchanged.
type ItemUpdate struct {
	Name        *string
	Price       *float64
	Description *string
	ImagePath   *string
}

type assignment struct {
	column  string
	value   any
	present bool
}

func field[T any](column string, v *T) assignment {
	if v == nil {
		return assignment{column: column}
	}
	return assignment{column: column, value: *v, present: true}
}

// statement builds the parameterized UPDATE for the present fields. It
// returns an empty query when nothing is set.
func (u ItemUpdate) statement(id string) (string, []any) {
	fields := []assignment{
		field("name", u.Name),
		field("price", u.Price),
		field("description", u.Description),
		field("image_path", u.ImagePath),
	}

	var set []string
	var args []any
	for _, f := range fields {
		if !f.present {
			continue
		}
		set = append(set, f.column+" = ?")
		args = append(args, f.value)
	}
	if len(set) == 0 {
		return "", nil
	}

	args = append(args, id)
	return `UPDATE items SET ` + strings.Join(set, ", ") + ` WHERE id = ?`, args
}

// UpdateItem applies a partial update and returns the updated row.
// With no fields set it performs no write and returns the current row.
func UpdateItem(ctx context.Context, db *sql.DB, id string, u ItemUpdate) (*model.Item, error) {
	query, args := u.statement(id)
	if query == "" {
		return GetItem(ctx, db, id)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return GetItem(ctx, db, id)
}

// DeleteItem removes an item. Its image, if any, is left in the image store.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var description, imagePath sql.NullString
	if err := s.Scan(&item.ID, &item.Name, &item.Price, &description, &imagePath); err != nil {
		return nil, err
	}
	if description.Valid {
		item.Description = &description.String
	}
	if imagePath.Valid {
		item.ImagePath = &imagePath.String
	}
	return item, nil
}
