package random

// Source yields floats in [0, 1).
type Source interface {
	Float64() float64
}

const golden = 0x6D2B79F5

// Mulberry32 is a small deterministic generator with 32 bits of state.
//
// The output stream follows the reference mulberry32 algorithm bit for bit, so a seed always yields the same bank.
// It is not safe for concurrent use; give each goroutine its own instance.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 seeds a generator. Negative seeds are reinterpreted as their two's complement bit pattern.
func NewMulberry32(seed int32) *Mulberry32 {
	return &Mulberry32{state: uint32(seed)} //nolint:gosec // intentional bit reinterpretation
}

// Uint32 advances the state and returns the next 32-bit output.
func (m *Mulberry32) Uint32() uint32 {
	m.state += golden
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns the next value in [0, 1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / 4294967296.0
}

// Index returns a uniformly chosen index in [0, n).
func Index(src Source, n int) int {
	return int(src.Float64() * float64(n))
}

// Shuffle returns a uniformly permuted copy of xs using Fisher-Yates from the last index down.
func Shuffle[T any](src Source, xs []T) []T {
	out := make([]T, len(xs))
	copy(out, xs)
	for i := len(out) - 1; i > 0; i-- {
		j := Index(src, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Pick returns a uniformly chosen element of xs. xs must not be empty.
func Pick[T any](src Source, xs []T) T {
	return xs[Index(src, len(xs))]
}
