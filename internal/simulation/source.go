package simulation

import "math/rand"

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// SourceFunc adapts a plain function into a Source.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// NewSource returns the process-wide generator. It is not seeded by the
// caller, so two runs never produce the same figures.
func NewSource() Source {
	return SourceFunc(rand.Float64)
}

// SequenceSource replays a fixed list of draws, wrapping around at the end.
type SequenceSource struct {
	Values []float64
	next   int
}

func (s *SequenceSource) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

// Reset rewinds the sequence to its first value.
func (s *SequenceSource) Reset() { s.next = 0 }
