package handlers

import (
	"net/http"

	"fapbot/internal/domain"

	"github.com/gin-gonic/gin"
)

// Me returns the authenticated user's profile: counters, balance,
// inventory and succubus collection.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, items, owned, err := h.Economy.Profile(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	collection := make([]gin.H, 0, len(owned))
	for _, o := range owned {
		entry := gin.H{"id": o.SuccubusID, "acquired_at": o.AcquiredAt}
		if def, ok := domain.SuccubusByID(o.SuccubusID); ok {
			entry["name"] = def.Name
			entry["rarity"] = def.Rarity
		}
		collection = append(collection, entry)
	}

	resp := gin.H{
		"id":       user.ID,
		"tg_id":    user.TgID,
		"username": user.Username,
		"faps":     user.Faps,
		"score":    user.Score,
		"coins":    user.Coins,
		"items":    items,
		"succubi":  collection,
	}
	if user.ActiveSuccubus != nil {
		resp["active_succubus"] = *user.ActiveSuccubus
		resp["activated_at"] = user.ActivatedAt
	}
	c.JSON(http.StatusOK, resp)
}
