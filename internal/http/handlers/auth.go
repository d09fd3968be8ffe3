package handlers

import (
	"errors"
	"net/http"

	"fapbot/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	InitData string `json:"init_data"`
}

func (h *Handler) AuthLogin(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if len(req.InitData) > 4096 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data too long"})
		return
	}

	token, user, err := h.Auth.Authenticate(c.Request.Context(), req.InitData)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInitData) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or stale telegram data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "auth failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"tg_id":    user.TgID,
			"username": user.Username,
			"faps":     user.Faps,
			"score":    user.Score,
			"coins":    user.Coins,
		},
	})
}
