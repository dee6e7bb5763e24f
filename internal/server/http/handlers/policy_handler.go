package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/loyaltyhub/rewardmart/internal/domain/errors"
	"github.com/loyaltyhub/rewardmart/internal/domain/model"
	"github.com/loyaltyhub/rewardmart/internal/server/http/dto"
)

// PolicyHandler manages reward policy endpoints.
type PolicyHandler struct {
	facade PolicyFacade
}

// NewPolicyHandler constructs PolicyHandler.
func NewPolicyHandler(facade PolicyFacade) *PolicyHandler {
	return &PolicyHandler{facade: facade}
}

// Upsert handles PUT /api/merchants/:merchantID/policy.
func (h *PolicyHandler) Upsert(c *gin.Context) {
	merchantID, ok := PathID(c, "merchantID")
	if !ok {
		return
	}
	var req dto.PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	stored, created, err := h.facade.UpsertPolicy(c.Request.Context(), req.ToModel(merchantID))
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidPolicy) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.NewPolicyResponse(stored))
}

// Get handles GET /api/merchants/:merchantID/policy.
func (h *PolicyHandler) Get(c *gin.Context) {
	merchantID, ok := PathID(c, "merchantID")
	if !ok {
		return
	}

	policy, err := h.facade.Policy(c.Request.Context(), merchantID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNoPolicy) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.NewPolicyResponse(policy))
}

// Delete handles DELETE /api/merchants/:merchantID/policy.
func (h *PolicyHandler) Delete(c *gin.Context) {
	merchantID, ok := PathID(c, "merchantID")
	if !ok {
		return
	}

	if err := h.facade.DeletePolicy(c.Request.Context(), merchantID); err != nil {
		if errors.Is(err, domainErrors.ErrNoPolicy) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpsertCategory handles POST /api/merchants/:merchantID/policy/categories.
func (h *PolicyHandler) UpsertCategory(c *gin.Context) {
	merchantID, ok := PathID(c, "merchantID")
	if !ok {
		return
	}
	var rule model.CategoryRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	policy, err := h.facade.UpsertCategoryRule(c.Request.Context(), merchantID, rule)
	if err != nil {
		h.writeRuleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPolicyResponse(policy))
}

// UpsertThreshold handles POST /api/merchants/:merchantID/policy/thresholds.
func (h *PolicyHandler) UpsertThreshold(c *gin.Context) {
	merchantID, ok := PathID(c, "merchantID")
	if !ok {
		return
	}
	var threshold model.SpendThreshold
	if err := c.ShouldBindJSON(&threshold); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	policy, err := h.facade.UpsertThreshold(c.Request.Context(), merchantID, threshold)
	if err != nil {
		h.writeRuleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPolicyResponse(policy))
}

// Summary handles GET /api/merchants/:merchantID/policy/summary.
func (h *PolicyHandler) Summary(c *gin.Context) {
	merchantID, ok := PathID(c, "merchantID")
	if !ok {
		return
	}

	summary, err := h.facade.PolicySummary(c.Request.Context(), merchantID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.SummaryResponse{
		TotalTransactions:   summary.TotalTransactions,
		TotalPointsIssued:   summary.TotalPointsIssued,
		TotalPointsRedeemed: summary.TotalPointsRedeemed,
		OutstandingPoints:   summary.OutstandingPoints,
	})
}

// ExpiringPoints handles GET /api/merchants/:merchantID/expiring-points.
func (h *PolicyHandler) ExpiringPoints(c *gin.Context) {
	merchantID, ok := PathID(c, "merchantID")
	if !ok {
		return
	}
	windowDays := QueryInt(c, "window_days", 0)

	report, err := h.facade.ExpiringSoon(c.Request.Context(), merchantID, windowDays)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	resp := make([]dto.ExpiringPointsResponse, 0, len(report))
	for _, row := range report {
		resp = append(resp, dto.ExpiringPointsResponse{
			CustomerID:     row.CustomerID,
			Name:           row.Name,
			Email:          row.Email,
			ExpiringPoints: row.ExpiringPoints,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PolicyHandler) writeRuleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNoPolicy):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrInvalidPolicy):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusInternalServerError)
	}
}
