package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoSuchItem = errors.New("item not owned")

type ItemRepository struct {
	db *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

// Items returns the user's inventory, names mapped to positive quantities.
func (r *ItemRepository) Items(ctx context.Context, userID int64) (map[string]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT item_name, quantity FROM items WHERE user_id = $1 AND quantity > 0`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string]int)
	for rows.Next() {
		var name string
		var qty int
		if err := rows.Scan(&name, &qty); err != nil {
			return nil, err
		}
		items[name] = qty
	}
	return items, rows.Err()
}

// AddItem adjusts an item quantity by delta. Negative deltas are
// rejected with ErrNoSuchItem when they would make the quantity negative.
func (r *ItemRepository) AddItem(ctx context.Context, userID int64, name string, delta int) error {
	if delta >= 0 {
		_, err := r.db.Exec(ctx,
			`INSERT INTO items (user_id, item_name, quantity)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (user_id, item_name) DO UPDATE SET quantity = items.quantity + $3`,
			userID, name, delta)
		return err
	}

	var qty int
	err := r.db.QueryRow(ctx,
		`UPDATE items SET quantity = quantity + $1
		 WHERE user_id = $2 AND item_name = $3 AND quantity + $1 >= 0
		 RETURNING quantity`,
		delta, userID, name,
	).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoSuchItem
	}
	return err
}
