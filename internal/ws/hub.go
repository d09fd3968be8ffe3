package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fapbot/internal/domain"
	"fapbot/internal/logger"
)

// lootBox is a pending claimable drop. Only the owning user may claim
// it, and only once.
type lootBox struct {
	userID  int64
	claimed chan struct{}
	once    sync.Once
}

// Hub fans server events out to connected clients: scoreboard updates
// go to everyone, loot-box offers go to the owning user's connections.
// It also tracks pending loot boxes so claims can be matched to offers.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
	boxes   map[string]*lootBox
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
		boxes:   make(map[string]*lootBox),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns := h.clients[c.UserID]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.UserID)
		}
	}
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.clients {
		for c := range conns {
			select {
			case c.Send <- msg:
			default:
				// slow consumer, drop the frame
			}
		}
	}
}

func (h *Hub) sendTo(userID int64, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.Send <- msg:
		default:
		}
	}
}

// BroadcastScoreboard pushes fresh standings to every connection.
func (h *Hub) BroadcastScoreboard(entries []domain.ScoreboardEntry) {
	msg, err := json.Marshal(ScoreboardPayload{Type: MsgScoreboard, Entries: entries})
	if err != nil {
		logger.Error("scoreboard marshal failed", "error", err)
		return
	}
	h.broadcast(msg)
}

// Offer posts a claimable loot box to the owning user's connections and
// blocks until it is claimed or the window expires.
func (h *Hub) Offer(ctx context.Context, userID int64, boxID string, window time.Duration) bool {
	box := &lootBox{userID: userID, claimed: make(chan struct{})}
	h.mu.Lock()
	h.boxes[boxID] = box
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.boxes, boxID)
		h.mu.Unlock()
	}()

	msg, err := json.Marshal(LootBoxPayload{
		Type:     MsgLootBox,
		BoxID:    boxID,
		WindowMS: window.Milliseconds(),
	})
	if err != nil {
		return false
	}
	h.sendTo(userID, msg)

	timer := time.NewTimer(window)
	defer timer.Stop()
	select {
	case <-box.claimed:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Claim resolves a pending loot box. It reports false for unknown boxes
// and for claims by anyone other than the owning user.
func (h *Hub) Claim(userID int64, boxID string) bool {
	h.mu.RLock()
	box := h.boxes[boxID]
	h.mu.RUnlock()
	if box == nil || box.userID != userID {
		return false
	}
	box.once.Do(func() { close(box.claimed) })
	return true
}
