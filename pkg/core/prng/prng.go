package prng

import "unicode/utf16"

// increment is the Weyl sequence step added to the state on every advance.
const increment uint32 = 0x6D2B79F5

// scale converts a uint32 into a float64 in [0, 1).
const scale = 1.0 / 4294967296.0

// Separator joins name and symbol before hashing.
const Separator = ":"

// Hash folds s into a non-negative 32-bit integer.
//
// Each UTF-16 code unit c updates the accumulator as h = h*31 + c with signed
// 32-bit wraparound. The absolute value of the final accumulator is returned;
// for math.MinInt32 that is 2^31, which still fits in a uint32.
func Hash(s string) uint32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h<<5 - h + int32(c)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// Seed returns the stream seed for a token name and symbol.
func Seed(name, symbol string) uint32 {
	return Hash(name + Separator + symbol)
}

// Advance moves state forward one step and returns the new state together
// with a value in [0, 1).
func Advance(state uint32) (uint32, float64) {
	state += increment
	t := (state ^ state>>15) * (state | 1)
	t = (t + (t^t>>7)*(t|61)) ^ t
	return state, float64(t^t>>14) * scale
}

// Stream is a sequential view over [Advance].
// A Stream is not safe for concurrent use; create one per generation.
type Stream struct {
	state uint32
	draws int
}

// NewStream creates a stream positioned at seed.
func NewStream(seed uint32) *Stream {
	return &Stream{state: seed}
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	var v float64
	s.state, v = Advance(s.state)
	s.draws++
	return v
}

// Intn returns floor(Float64() * n).
func (s *Stream) Intn(n int) int {
	return int(s.Float64() * float64(n))
}

// State returns the current internal state.
func (s *Stream) State() uint32 { return s.state }

// Draws returns how many values have been consumed.
func (s *Stream) Draws() int { return s.draws }
