package domain

import "time"

type User struct {
	ID        int64     `db:"id" json:"id"`
	TgID      int64     `db:"tg_id" json:"tg_id"`
	Username  string    `db:"username" json:"username"`
	Faps      int64     `db:"faps" json:"faps"`
	Score     int64     `db:"score" json:"score"`
	Coins     int64     `db:"coins" json:"coins"`
	LastDaily *time.Time `db:"last_daily" json:"last_daily,omitempty"`

	// Active succubus, at most one at a time. ActivatedAt is set exactly
	// when ActiveSuccubus is set and drives the 7-day exclusivity lock.
	ActiveSuccubus *SuccubusID `db:"active_succubus" json:"active_succubus,omitempty"`
	ActivatedAt    *time.Time  `db:"succubus_activated_at" json:"succubus_activated_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScoreboardEntry is one row of the public scoreboard.
// The board ranks score ascending: lower is better.
type ScoreboardEntry struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Faps     int64  `json:"faps"`
	Score    int64  `json:"score"`
}

// ActiveSuccubusRow pairs a user with their active succubus,
// used to re-arm background effects on startup.
type ActiveSuccubusRow struct {
	UserID   int64
	TgID     int64
	Succubus SuccubusID
}
