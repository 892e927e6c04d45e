package model

// SimulationUnit is one simulated bot. ID is 1-based and stable for a run;
// Earnings only ever grows.
type SimulationUnit struct {
	ID       int
	Earnings float64
}

// NewUnits allocates n units with IDs 1..n and zero earnings.
func NewUnits(n int) []SimulationUnit {
	units := make([]SimulationUnit, n)
	for i := range units {
		units[i].ID = i + 1
	}
	return units
}
