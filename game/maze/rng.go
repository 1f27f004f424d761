package maze

import "math/rand/v2"

// LCG parameters shared with browser clients. Changing any of them breaks
// maze agreement between parties.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// MaxSeed is the largest seed whose first LCG step stays exactly
// representable in a float64, which is what JavaScript clients compute with.
const MaxSeed = ((1 << 53) - lcgIncrement) / lcgMultiplier

// Source yields floats in [0,1).
type Source interface {
	Float64() float64
}

// LCG is the seeded generator used for every networked maze.
type LCG struct {
	value int64
}

// NewLCG returns a generator whose state starts at seed.
func NewLCG(seed int64) *LCG {
	return &LCG{value: seed}
}

// Float64 advances the generator and returns value/233280.
func (r *LCG) Float64() float64 {
	r.value = (r.value*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.value) / lcgModulus
}

// unseeded backs offline generation where no other party has to agree.
type unseeded struct{}

func (unseeded) Float64() float64 { return rand.Float64() }
