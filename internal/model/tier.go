package model

import "github.com/shopspring/decimal"

// TierDefinition describes one licensing tier.
// Units:
// - LicensePrice, MonthlyPayout: currency
// - DurationMonths: months (the same value for every tier)
type TierDefinition struct {
	ID             int
	Bots           int
	LicensePrice   decimal.Decimal
	MonthlyPayout  decimal.Decimal
	DurationMonths int
}

func NewTierDefinition(id, bots int, licensePrice, monthlyPayout decimal.Decimal, durationMonths int) (TierDefinition, error) {
	t := TierDefinition{
		ID:             id,
		Bots:           bots,
		LicensePrice:   licensePrice,
		MonthlyPayout:  monthlyPayout,
		DurationMonths: durationMonths,
	}
	if err := t.Validate(); err != nil {
		return TierDefinition{}, err
	}
	return t, nil
}

func (t TierDefinition) Validate() error {
	if t.ID <= 0 {
		return configErr(t.ID, "id", "must be > 0")
	}
	if t.Bots <= 0 {
		return configErr(t.ID, "bots", "must be > 0")
	}
	if t.LicensePrice.IsNegative() {
		return configErr(t.ID, "license_price", "must be >= 0")
	}
	if t.MonthlyPayout.IsNegative() {
		return configErr(t.ID, "monthly_payout", "must be >= 0")
	}
	if t.DurationMonths <= 0 {
		return configErr(t.ID, "duration_months", "must be > 0")
	}
	return nil
}

// TierProjection holds the fields derived from a TierDefinition.
// Values are computed once and never mutated afterwards.
type TierProjection struct {
	Tier TierDefinition

	TotalPayout  decimal.Decimal // MonthlyPayout * DurationMonths
	Profit       decimal.Decimal // TotalPayout - LicensePrice
	TotalFunding decimal.Decimal // Bots * per-unit cost
}

func configErr(tier int, field, reason string) *ConfigurationError {
	return &ConfigurationError{Tier: tier, Field: field, Reason: reason}
}
