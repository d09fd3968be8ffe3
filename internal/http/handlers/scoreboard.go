package handlers

import (
	"net/http"

	"fapbot/internal/logger"

	"github.com/gin-gonic/gin"
)

// GetScoreboard returns the community standings, best (lowest) score first.
func (h *Handler) GetScoreboard(c *gin.Context) {
	entries, err := h.Economy.Scoreboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scoreboard": entries})
}

// Fap records one fap press and pushes fresh standings to the ws hub.
func (h *Handler) Fap(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Economy.AddFap(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	if entries, err := h.Economy.Scoreboard(c.Request.Context()); err == nil {
		h.Hub.BroadcastScoreboard(entries)
	} else {
		logger.Warn("scoreboard refresh failed", "error", err)
	}

	c.JSON(http.StatusOK, res)
}
