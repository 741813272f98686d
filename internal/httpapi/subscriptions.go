package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/hyperwatch/internal/model"
	"github.com/rickgao/hyperwatch/internal/storage"
)

const requestTimeout = 5 * time.Second

// SubscriptionController administers subscribers and their tracked wallets.
type SubscriptionController struct {
	store      storage.SubscriptionStore
	maxWallets int
	logger     *slog.Logger
}

func NewSubscriptionController(store storage.SubscriptionStore, maxWallets int, logger *slog.Logger) *SubscriptionController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionController{store: store, maxWallets: maxWallets, logger: logger}
}

func (c *SubscriptionController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/subscribers", c.handleUpsertSubscriber)
	rg.DELETE("/subscribers/:id", c.handleDeactivateSubscriber)
	rg.GET("/subscribers/:id/wallets", c.handleListWallets)
	rg.POST("/subscribers/:id/wallets", c.handleTrackWallet)
	rg.DELETE("/subscribers/:id/wallets/:address", c.handleUntrackWallet)
}

type subscriberResponse struct {
	ID        string    `json:"id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type walletResponse struct {
	Address   string    `json:"address"`
	Nickname  string    `json:"nickname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *SubscriptionController) handleUpsertSubscriber(ctx *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()
	sub, err := c.store.UpsertSubscriber(reqCtx, req.ID)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, subscriberResponse{ID: sub.ID, Active: sub.Active, CreatedAt: sub.CreatedAt})
}

func (c *SubscriptionController) handleDeactivateSubscriber(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()
	if err := c.store.DeactivateSubscriber(reqCtx, ctx.Param("id")); err != nil {
		c.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *SubscriptionController) handleListWallets(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()
	wallets, err := c.store.WalletsOf(reqCtx, ctx.Param("id"))
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	out := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, walletResponse{Address: w.Address, Nickname: w.Nickname, CreatedAt: w.CreatedAt})
	}
	ctx.JSON(http.StatusOK, gin.H{"wallets": out, "limit": c.maxWallets})
}

func (c *SubscriptionController) handleTrackWallet(ctx *gin.Context) {
	var req struct {
		Address  string `json:"address"`
		Nickname string `json:"nickname"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !model.ValidAddress(req.Address) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "address must be 0x followed by 40 hex characters"})
		return
	}

	w := model.TrackedWallet{
		SubscriberID: ctx.Param("id"),
		Address:      model.NormalizeAddress(req.Address),
		Nickname:     req.Nickname,
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()
	if err := c.store.TrackWallet(reqCtx, w, c.maxWallets); err != nil {
		c.writeError(ctx, err)
		return
	}

	c.logger.Info("wallet tracked", "subscriber", w.SubscriberID, "wallet", w.Address)
	ctx.JSON(http.StatusCreated, walletResponse{Address: w.Address, Nickname: w.Nickname, CreatedAt: time.Now().UTC()})
}

func (c *SubscriptionController) handleUntrackWallet(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()
	if err := c.store.UntrackWallet(reqCtx, ctx.Param("id"), ctx.Param("address")); err != nil {
		c.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *SubscriptionController) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrWalletLimit):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error(), "limit": c.maxWallets})
	case errors.Is(err, storage.ErrAlreadyTracked):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.logger.Error("subscription request failed", "path", ctx.FullPath(), "err", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
