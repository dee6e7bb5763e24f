package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	"github.com/loyaltyhub/rewardmart/internal/server/http/dto"
)

// PurchaseHandler manages purchase and spin wheel endpoints.
type PurchaseHandler struct {
	facade PurchaseFacade
}

// NewPurchaseHandler constructs PurchaseHandler.
func NewPurchaseHandler(facade PurchaseFacade) *PurchaseHandler {
	return &PurchaseHandler{facade: facade}
}

// Record handles POST /api/purchases.
func (h *PurchaseHandler) Record(c *gin.Context) {
	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.RecordPurchase(c.Request.Context(), model.PurchaseRequest{
		CustomerID:   req.CustomerID,
		MerchantID:   req.MerchantID,
		Amount:       req.Amount,
		Category:     req.Category,
		RedeemPoints: req.RedeemPoints,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidAmount):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, domainErrors.ErrNoPolicy), errors.Is(err, domainErrors.ErrCustomerNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInsufficientPoints):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewPurchaseResponse(result))
}

// Spin handles POST /api/customers/:customerID/spin.
func (h *PurchaseHandler) Spin(c *gin.Context) {
	customerID, ok := PathID(c, "customerID")
	if !ok {
		return
	}
	var req dto.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.Spin(c.Request.Context(), customerID, req.MerchantID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNoPolicy), errors.Is(err, domainErrors.ErrCustomerNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrSpinNotConfigured):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domainErrors.ErrInsufficientPoints):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, dto.SpinResponse{WonPoints: result.WonPoints, Balance: result.Balance, Tier: result.Tier})
}
