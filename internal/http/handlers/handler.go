package handlers

import (
	"errors"
	"net/http"

	"fapbot/internal/game"
	"fapbot/internal/repository"
	"fapbot/internal/service"
	"fapbot/internal/ws"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Economy    *service.EconomyService
	Gacha      *service.GachaService
	Auth       *service.AuthService
	Store      *repository.Store
	Hub        *ws.Hub
	AdminTgIDs []int64
}

func NewHandler(economy *service.EconomyService, gacha *service.GachaService, auth *service.AuthService, store *repository.Store, hub *ws.Hub, adminTgIDs []int64) *Handler {
	return &Handler{
		Economy:    economy,
		Gacha:      gacha,
		Auth:       auth,
		Store:      store,
		Hub:        hub,
		AdminTgIDs: adminTgIDs,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// fail translates service and repository errors into JSON responses.
func fail(c *gin.Context, err error) {
	var cooldown *service.CooldownError
	var lock *service.ActivationLockError

	switch {
	case errors.As(err, &cooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":             cooldown.Error(),
			"remaining_seconds": int64(cooldown.Remaining.Seconds()),
		})
	case errors.As(err, &lock):
		c.JSON(http.StatusConflict, gin.H{
			"error":             lock.Error(),
			"remaining_seconds": int64(lock.Remaining.Seconds()),
		})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, repository.ErrInsufficientFunds),
		errors.Is(err, repository.ErrNoSuchItem),
		errors.Is(err, service.ErrUnknownItem),
		errors.Is(err, service.ErrUnknownSuccubus),
		errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrFairTradeLocked),
		errors.Is(err, service.ErrItemNotUsable),
		errors.Is(err, service.ErrNoRitualItem),
		errors.Is(err, game.ErrEmptyRarityTier):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
