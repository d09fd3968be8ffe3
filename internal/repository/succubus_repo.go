package repository

import (
	"context"
	"errors"
	"time"

	"fapbot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SuccubusRepository struct {
	db *pgxpool.Pool
}

func NewSuccubusRepository(db *pgxpool.Pool) *SuccubusRepository {
	return &SuccubusRepository{db: db}
}

// Owned returns every succubus the user has summoned.
func (r *SuccubusRepository) Owned(ctx context.Context, userID int64) ([]domain.OwnedSuccubus, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, succubus_id, acquired_at
		 FROM user_succubus
		 WHERE user_id = $1
		 ORDER BY acquired_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OwnedSuccubus
	for rows.Next() {
		var o domain.OwnedSuccubus
		if err := rows.Scan(&o.UserID, &o.SuccubusID, &o.AcquiredAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Owns reports whether the user owns the succubus.
func (r *SuccubusRepository) Owns(ctx context.Context, userID int64, id domain.SuccubusID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_succubus WHERE user_id = $1 AND succubus_id = $2)`,
		userID, id,
	).Scan(&exists)
	return exists, err
}

// AddOwned records a new ownership row. Duplicate acquisitions are a no-op.
func (r *SuccubusRepository) AddOwned(ctx context.Context, userID int64, id domain.SuccubusID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_succubus (user_id, succubus_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, succubus_id) DO NOTHING`,
		userID, id)
	return err
}

// Active returns the user's active succubus, if any.
func (r *SuccubusRepository) Active(ctx context.Context, userID int64) (domain.SuccubusID, bool, error) {
	var active *string
	err := r.db.QueryRow(ctx,
		`SELECT active_succubus FROM users WHERE id = $1`, userID,
	).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, ErrUserNotFound
	}
	if err != nil || active == nil {
		return "", false, err
	}
	return domain.SuccubusID(*active), true, nil
}

// Activate marks the succubus active and stamps the activation time.
// It fails (false, nil) when the user does not own the succubus.
func (r *SuccubusRepository) Activate(ctx context.Context, userID int64, id domain.SuccubusID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET active_succubus = $1, succubus_activated_at = NOW()
		 WHERE id = $2
		   AND EXISTS(SELECT 1 FROM user_succubus WHERE user_id = $2 AND succubus_id = $1)`,
		id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ActivatedAt returns when the current succubus was activated.
func (r *SuccubusRepository) ActivatedAt(ctx context.Context, userID int64) (time.Time, bool, error) {
	var at *time.Time
	err := r.db.QueryRow(ctx,
		`SELECT succubus_activated_at FROM users WHERE id = $1`, userID,
	).Scan(&at)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, ErrUserNotFound
	}
	if err != nil || at == nil {
		return time.Time{}, false, err
	}
	return *at, true, nil
}

// ActiveUsers lists every user with a non-null active succubus.
// Used to re-arm background effects after a restart.
func (r *SuccubusRepository) ActiveUsers(ctx context.Context) ([]domain.ActiveSuccubusRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tg_id, active_succubus FROM users WHERE active_succubus IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActiveSuccubusRow
	for rows.Next() {
		var row domain.ActiveSuccubusRow
		if err := rows.Scan(&row.UserID, &row.TgID, &row.Succubus); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
