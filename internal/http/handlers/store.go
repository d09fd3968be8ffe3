package handlers

import (
	"net/http"

	"fapbot/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetStore lists the item catalog with the caller's effective prices.
func (h *Handler) GetStore(c *gin.Context) {
	userID, _ := getUserID(c)

	catalog := domain.StoreCatalog()
	items := make([]gin.H, 0, len(catalog))
	for _, item := range catalog {
		price := item.Cost
		if userID != 0 {
			price = h.Economy.Price(c.Request.Context(), userID, item.Cost)
		}
		items = append(items, gin.H{
			"name":        item.Name,
			"emoji":       item.Emoji,
			"description": item.Description,
			"price":       price,
		})
	}
	c.JSON(http.StatusOK, gin.H{"store": items})
}

type BuyRequest struct {
	Item string `json:"item"`
}

func (h *Handler) Buy(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req BuyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	res, err := h.Economy.Buy(c.Request.Context(), userID, req.Item)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ClaimDaily(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Economy.ClaimDaily(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Balance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	coins, err := h.Store.Coins(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coins": coins})
}
