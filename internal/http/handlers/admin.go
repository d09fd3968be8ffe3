package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// requireAdmin resolves the caller and checks their Telegram id against
// the configured admin list. Non-admins get a plain denial.
func (h *Handler) requireAdmin(c *gin.Context) (int64, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}

	user, err := h.Store.ByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return 0, false
	}
	if !slices.Contains(h.AdminTgIDs, user.TgID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return 0, false
	}
	return userID, true
}

type GrantRequest struct {
	UserID   int64  `json:"user_id"`
	Succubus string `json:"succubus"`
}

// AdminGrant records succubus ownership without a ritual.
func (h *Handler) AdminGrant(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var req GrantRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	def, err := h.Economy.GrantSuccubus(c.Request.Context(), req.UserID, req.Succubus)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"granted": def, "user_id": req.UserID})
}

type AdjustRequest struct {
	UserID int64 `json:"user_id"`
	Delta  int64 `json:"delta"`
}

// AdminAdjustCoins shifts a user's balance by delta.
func (h *Handler) AdminAdjustCoins(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var req AdjustRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	balance, err := h.Economy.AdjustCoins(c.Request.Context(), req.UserID, req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": req.UserID, "coins": balance})
}

// AdminAdjustScore shifts a user's score by delta, clamped at zero.
func (h *Handler) AdminAdjustScore(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var req AdjustRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	score, err := h.Economy.AdjustScore(c.Request.Context(), req.UserID, req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": req.UserID, "score": score})
}
