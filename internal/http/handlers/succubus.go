package handlers

import (
	"net/http"

	"fapbot/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetCatalog returns the full succubus catalog.
func (h *Handler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"succubi": domain.Catalog()})
}

// GetSuccubusInfo returns one catalog entry by name.
func (h *Handler) GetSuccubusInfo(c *gin.Context) {
	def, ok := domain.SuccubusByName(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown succubus"})
		return
	}
	c.JSON(http.StatusOK, def)
}

type ActivateRequest struct {
	Name string `json:"name"`
}

// Activate makes an owned succubus the caller's active one.
func (h *Handler) Activate(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ActivateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	def, err := h.Economy.ActivateSuccubus(c.Request.Context(), userID, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activated": def})
}

// Ritual consumes a Ritual item and performs a summoning.
func (h *Handler) Ritual(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Gacha.PerformRitual(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// FairTrade trades 10 Fapcoins for one point of score reduction.
// Requires Selphira active.
func (h *Handler) FairTrade(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	score, balance, err := h.Economy.FairTrade(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score, "coins": balance})
}
