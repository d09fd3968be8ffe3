package repository

import (
	"context"
	"errors"
	"time"

	"fapbot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, tg_id, COALESCE(username, ''), faps, score, coins,
	 last_daily, active_succubus, succubus_activated_at, created_at`

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var active *string
	if err := row.Scan(
		&u.ID,
		&u.TgID,
		&u.Username,
		&u.Faps,
		&u.Score,
		&u.Coins,
		&u.LastDaily,
		&active,
		&u.ActivatedAt,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if active != nil {
		id := domain.SuccubusID(*active)
		u.ActiveSuccubus = &id
	}
	return &u, nil
}

func (r *UserRepository) ByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanUser(row)
}

func (r *UserRepository) ByTgID(ctx context.Context, tgID int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tg_id = $1`, tgID)
	return r.scanUser(row)
}

// CreateOrUpdate inserts a user on first interaction, refreshing the
// username on conflict.
func (r *UserRepository) CreateOrUpdate(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (tg_id, username)
		 VALUES ($1, $2)
		 ON CONFLICT (tg_id) DO UPDATE SET username = EXCLUDED.username
		 RETURNING id, faps, score, coins, created_at`,
		u.TgID, u.Username,
	).Scan(&u.ID, &u.Faps, &u.Score, &u.Coins, &u.CreatedAt)
}

// UpdateScore sets faps and score. Score is clamped at zero.
func (r *UserRepository) UpdateScore(ctx context.Context, userID, faps, score int64) error {
	if score < 0 {
		score = 0
	}
	_, err := r.db.Exec(ctx,
		`UPDATE users SET faps = $1, score = $2 WHERE id = $3`,
		faps, score, userID,
	)
	return err
}

// AddScore adjusts score by delta, clamped at zero in SQL.
func (r *UserRepository) AddScore(ctx context.Context, userID, delta int64) (int64, error) {
	var newScore int64
	err := r.db.QueryRow(ctx,
		`UPDATE users SET score = GREATEST(0, score + $1) WHERE id = $2 RETURNING score`,
		delta, userID,
	).Scan(&newScore)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return newScore, err
}

// AddFap increments the fap counter and, unless shielded is true,
// the score as well.
func (r *UserRepository) AddFap(ctx context.Context, userID int64, shielded bool) (*domain.User, error) {
	scoreDelta := int64(1)
	if shielded {
		scoreDelta = 0
	}
	row := r.db.QueryRow(ctx,
		`UPDATE users SET faps = faps + 1, score = score + $1 WHERE id = $2
		 RETURNING `+userColumns, scoreDelta, userID)
	return r.scanUser(row)
}

// Coins returns the user's Fapcoin balance.
func (r *UserRepository) Coins(ctx context.Context, userID int64) (int64, error) {
	var coins int64
	err := r.db.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1`, userID).Scan(&coins)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return coins, err
}

// AddCoins adjusts the balance unconditionally and returns the new value.
func (r *UserRepository) AddCoins(ctx context.Context, userID, delta int64) (int64, error) {
	var newBalance int64
	err := r.db.QueryRow(ctx,
		`UPDATE users SET coins = coins + $1 WHERE id = $2 RETURNING coins`,
		delta, userID,
	).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return newBalance, err
}

// SpendCoins deducts amount only if the balance stays non-negative.
func (r *UserRepository) SpendCoins(ctx context.Context, userID, amount int64) (int64, error) {
	var newBalance int64
	err := r.db.QueryRow(ctx,
		`UPDATE users SET coins = coins - $1 WHERE id = $2 AND coins - $1 >= 0 RETURNING coins`,
		amount, userID,
	).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		// not found or insufficient, check which
		var exists bool
		_ = r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
		if !exists {
			return 0, ErrUserNotFound
		}
		return 0, ErrInsufficientFunds
	}
	return newBalance, err
}

// LastDaily returns the last daily claim timestamp, if any.
func (r *UserRepository) LastDaily(ctx context.Context, userID int64) (time.Time, bool, error) {
	var last *time.Time
	err := r.db.QueryRow(ctx, `SELECT last_daily FROM users WHERE id = $1`, userID).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, ErrUserNotFound
	}
	if err != nil || last == nil {
		return time.Time{}, false, err
	}
	return *last, true, nil
}

// SetLastDaily records a daily claim.
func (r *UserRepository) SetLastDaily(ctx context.Context, userID int64, t time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_daily = $1 WHERE id = $2`, t, userID)
	return err
}

// Scoreboard returns all users with at least one fap, best (lowest)
// score first, ties broken by username.
func (r *UserRepository) Scoreboard(ctx context.Context) ([]domain.ScoreboardEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, COALESCE(username, ''), faps, score
		 FROM users
		 WHERE faps > 0
		 ORDER BY score ASC, username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScoreboardEntry
	for rows.Next() {
		var e domain.ScoreboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Faps, &e.Score); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RandomOtherUser picks a uniformly random user other than exclude.
// ok is false when no other user exists.
func (r *UserRepository) RandomOtherUser(ctx context.Context, exclude int64) (*domain.User, bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id != $1 ORDER BY random() LIMIT 1`, exclude)
	u, err := r.scanUser(row)
	if errors.Is(err, ErrUserNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}
