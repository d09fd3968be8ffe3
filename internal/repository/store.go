package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Store bundles the repositories behind one value. Each call commits on
// its own; there is no cross-call transaction, so read-modify-write
// sequences in callers can race (known gap, see DESIGN.md).
type Store struct {
	*UserRepository
	*ItemRepository
	*SuccubusRepository
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		UserRepository:     NewUserRepository(db),
		ItemRepository:     NewItemRepository(db),
		SuccubusRepository: NewSuccubusRepository(db),
	}
}
