package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tier-sim/internal/api/models"
	"tier-sim/internal/model"
	"tier-sim/internal/observability"
)

// TierHandler serves the projection table. Projections are computed once at
// startup and never change.
type TierHandler struct {
	resp    models.TiersResponse
	metrics *observability.Metrics
}

func NewTierHandler(projs []model.TierProjection, perUnitCost decimal.Decimal, metrics *observability.Metrics) *TierHandler {
	resp := models.TiersResponse{
		PerUnitCost: perUnitCost,
		Tiers:       make([]models.TierProjection, 0, len(projs)),
	}
	for _, p := range projs {
		resp.Tiers = append(resp.Tiers, models.NewTierProjection(p))
		resp.DurationMonths = p.Tier.DurationMonths
	}
	return &TierHandler{resp: resp, metrics: metrics}
}

// ListTiers handles GET /api/v1/tiers
func (h *TierHandler) ListTiers(c *gin.Context) {
	if h.metrics != nil {
		h.metrics.ProjectionsTotal.Inc()
	}
	c.JSON(http.StatusOK, h.resp)
}
