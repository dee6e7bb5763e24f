package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/server/http/dto"
)

// BalanceHandler manages ledger read endpoints.
type BalanceHandler struct {
	facade BalanceFacade
}

// NewBalanceHandler constructs BalanceHandler.
func NewBalanceHandler(facade BalanceFacade) *BalanceHandler {
	return &BalanceHandler{facade: facade}
}

// Balance handles GET /api/customers/:customerID/balance.
func (h *BalanceHandler) Balance(c *gin.Context) {
	customerID, ok := PathID(c, "customerID")
	if !ok {
		return
	}

	details, err := h.facade.Balance(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrCustomerNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.NewBalanceResponse(details))
}

// History handles GET /api/customers/:customerID/transactions.
func (h *BalanceHandler) History(c *gin.Context) {
	customerID, ok := PathID(c, "customerID")
	if !ok {
		return
	}

	history, err := h.facade.History(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrCustomerNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(history) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.TransactionResponse, 0, len(history))
	for _, t := range history {
		resp = append(resp, dto.NewTransactionResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}
