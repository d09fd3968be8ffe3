package ws

import "fapbot/internal/domain"

// client → server
type ClaimBoxPayload struct {
	Type  string `json:"type"`
	BoxID string `json:"box_id"`
}

// server → client
type ScoreboardPayload struct {
	Type    string                  `json:"type"`
	Entries []domain.ScoreboardEntry `json:"entries"`
}

type LootBoxPayload struct {
	Type      string `json:"type"`
	BoxID     string `json:"box_id"`
	WindowMS  int64  `json:"window_ms"`
}

type ClaimAckPayload struct {
	Type     string `json:"type"`
	BoxID    string `json:"box_id"`
	Accepted bool   `json:"accepted"`
}
