package restapi

import (
	"net/http"
	"strings"

	"portfolio_tracker/internal/app/port"
	"portfolio_tracker/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateWalletRequest is the body of POST /api/v1/wallets.
type CreateWalletRequest struct {
	Name    string `json:"name"`
	Address string `json:"address" binding:"required"`
	Network string `json:"network"`
}

// UpdateWalletRequest is the body of PATCH /api/v1/wallets/:id. Absent fields are left unchanged.
type UpdateWalletRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Network *string `json:"network"`
}

// WalletHandler manages the caller's registered wallets.
type WalletHandler struct {
	store     port.WalletStore
	networks  port.NetworkDefinitionProvider
	chain     port.ChainReader
	portfolio port.PortfolioService
}

func NewWalletHandler(store port.WalletStore, np port.NetworkDefinitionProvider, chain port.ChainReader, ps port.PortfolioService) *WalletHandler {
	return &WalletHandler{store: store, networks: np, chain: chain, portfolio: ps}
}

func (h *WalletHandler) CreateWalletHandler(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	network, err := h.resolveNetwork(req.Network)
	if err != nil {
		respondError(c, err)
		return
	}

	address := strings.TrimSpace(req.Address)
	if err := h.chain.ValidateAddress(address); err != nil {
		respondError(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = address
	}

	userID := currentUser(c)
	created, err := h.store.Create(c.Request.Context(), entity.Wallet{
		Name:    name,
		Address: address,
		Network: network,
		UserID:  userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.portfolio.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusCreated, created)
}

// UpdateWalletHandler applies the fields present in the body to one of the caller's wallets.
func (h *WalletHandler) UpdateWalletHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "wallet id must be a UUID")
		return
	}
	var req UpdateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	userID := currentUser(c)
	w, err := h.store.FindOne(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Network != nil {
		if w.Network, err = h.resolveNetwork(*req.Network); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if err := h.chain.ValidateAddress(address); err != nil {
			respondError(c, err)
			return
		}
		w.Address = address
	}
	if req.Name != nil {
		w.Name = strings.TrimSpace(*req.Name)
	}
	if w.Name == "" {
		w.Name = w.Address
	}

	updated, err := h.store.Update(c.Request.Context(), w)
	if err != nil {
		respondError(c, err)
		return
	}

	h.portfolio.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusOK, updated)
}

// resolveNetwork maps a requested network name to its identifier; blank means the supported network.
func (h *WalletHandler) resolveNetwork(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return h.networks.Supported().Identifier, nil
	}
	def, ok := h.networks.GetNetworkDefinitionByName(name)
	if !ok {
		return "", entity.ErrUnsupportedNetwork
	}
	return def.Identifier, nil
}

// ListWalletsHandler returns the caller's wallets, newest first.
func (h *WalletHandler) ListWalletsHandler(c *gin.Context) {
	wallets, err := h.store.FindAll(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if wallets == nil {
		wallets = []entity.Wallet{}
	}
	c.JSON(http.StatusOK, wallets)
}

func (h *WalletHandler) GetWalletHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "wallet id must be a UUID")
		return
	}
	w, err := h.store.FindOne(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WalletHandler) DeleteWalletHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "wallet id must be a UUID")
		return
	}
	userID := currentUser(c)
	if err := h.store.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	h.portfolio.Invalidate(c.Request.Context(), userID)
	c.Status(http.StatusNoContent)
}
