package model

import "fmt"

// ConfigurationError reports a tier or simulation parameter that violates its
// invariants. It is raised before any simulation starts.
type ConfigurationError struct {
	Tier   int // 0 when the error is not tied to a tier
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Tier != 0 {
		return fmt.Sprintf("tier %d: %s %s", e.Tier, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ArithmeticError aborts a simulation run. There is no retry and no partial
// result is considered valid once it is returned.
type ArithmeticError struct {
	Tick   int
	UnitID int // 0 when the failure is not tied to a single unit
	Reason string
}

func (e *ArithmeticError) Error() string {
	if e.UnitID != 0 {
		return fmt.Sprintf("tick %d unit %d: %s", e.Tick, e.UnitID, e.Reason)
	}
	return fmt.Sprintf("tick %d: %s", e.Tick, e.Reason)
}
