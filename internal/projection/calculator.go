// Package projection derives the static financial fields of each licensing
// tier and renders them as a text table.
package projection

import (
	"github.com/shopspring/decimal"

	"tier-sim/internal/model"
)

// Calculator turns tier definitions into projections. It holds no mutable
// state, so repeated calls on the same input give identical output.
type Calculator struct {
	perUnitCost decimal.Decimal
}

func New(perUnitCost decimal.Decimal) *Calculator {
	return &Calculator{perUnitCost: perUnitCost}
}

func (c *Calculator) PerUnitCost() decimal.Decimal { return c.perUnitCost }

// Project computes the derived fields for a single tier. Decimal arithmetic
// keeps every field exact.
func (c *Calculator) Project(def model.TierDefinition) model.TierProjection {
	total := def.MonthlyPayout.Mul(decimal.NewFromInt(int64(def.DurationMonths)))
	return model.TierProjection{
		Tier:         def,
		TotalPayout:  total,
		Profit:       total.Sub(def.LicensePrice),
		TotalFunding: c.perUnitCost.Mul(decimal.NewFromInt(int64(def.Bots))),
	}
}

// ProjectAll projects every definition, preserving input order.
func (c *Calculator) ProjectAll(defs []model.TierDefinition) []model.TierProjection {
	out := make([]model.TierProjection, 0, len(defs))
	for _, d := range defs {
		out = append(out, c.Project(d))
	}
	return out
}

// Find returns the projection for the given tier ID.
func Find(projs []model.TierProjection, tierID int) (model.TierProjection, bool) {
	for _, p := range projs {
		if p.Tier.ID == tierID {
			return p, true
		}
	}
	return model.TierProjection{}, false
}
