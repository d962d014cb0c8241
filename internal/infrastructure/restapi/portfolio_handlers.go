package restapi

import (
	"net/http"

	"portfolio_tracker/internal/app/port"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PortfolioHandler serves wallet valuations and the aggregated portfolio.
type PortfolioHandler struct {
	valuation port.ValuationService
	portfolio port.PortfolioService
	logger    port.Logger
}

func NewPortfolioHandler(vs port.ValuationService, ps port.PortfolioService, logger port.Logger) *PortfolioHandler {
	return &PortfolioHandler{valuation: vs, portfolio: ps, logger: logger}
}

// GetWalletBalanceHandler handles GET /api/v1/balances/wallet/:id.
func (h *PortfolioHandler) GetWalletBalanceHandler(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "wallet id must be a UUID")
		return
	}

	balance, err := h.valuation.GetWalletValuation(c.Request.Context(), walletID, currentUser(c))
	if err != nil {
		h.logger.Warn("Wallet valuation failed", "wallet_id", walletID, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// GetAggregatedBalanceHandler handles GET /api/v1/balances/aggregate.
func (h *PortfolioHandler) GetAggregatedBalanceHandler(c *gin.Context) {
	portfolio, err := h.portfolio.Aggregate(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}
