package handlers

import (
	"net/http"

	"fapbot/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetItems returns the caller's inventory.
func (h *Handler) GetItems(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Store.Items(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type UseItemRequest struct {
	Item string `json:"item"`
}

// UseItem consumes one item. The Ritual item routes to the summoning
// flow; everything else applies its effect directly.
func (h *Handler) UseItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UseItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if req.Item == domain.ItemRitual {
		res, err := h.Gacha.PerformRitual(c.Request.Context(), userID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	res, err := h.Economy.UseItem(c.Request.Context(), userID, req.Item)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
