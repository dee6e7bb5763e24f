package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/server/http/dto"
)

// CustomerHandler manages customer account endpoints.
type CustomerHandler struct {
	facade CustomerFacade
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(facade CustomerFacade) *CustomerHandler {
	return &CustomerHandler{facade: facade}
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	acct, err := h.facade.CreateCustomer(c.Request.Context(), req.MerchantID, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCustomer) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCustomerResponse(acct))
}

// List handles GET /api/merchants/:merchantID/customers.
func (h *CustomerHandler) List(c *gin.Context) {
	merchantID, ok := PathID(c, "merchantID")
	if !ok {
		return
	}

	accounts, err := h.facade.Customers(c.Request.Context(), merchantID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	resp := make([]dto.CustomerResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, dto.NewCustomerResponse(&accounts[i]))
	}
	c.JSON(http.StatusOK, resp)
}
