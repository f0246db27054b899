package polarity

import "math"

// Multiplier scales the yang (attack) and yin (defense) allocations.
type Multiplier struct {
	Attack  float64 `yaml:"attack"`
	Defense float64 `yaml:"defense"`
}

// Neutral leaves both allocations unscaled.
var Neutral = Multiplier{Attack: 1.0, Defense: 1.0}

// Table holds one multiplier pair per state. Zero-valued entries fall back to
// Neutral so a partially filled table never yields a zero stat.
type Table map[State]Multiplier

// DefaultTable is the continuous-dial table.
func DefaultTable() Table {
	return Table{
		Balance:        {Attack: 1.25, Defense: 1.25},
		CriticalYang:   {Attack: 1.75, Defense: 1.25},
		CriticalYin:    {Attack: 1.25, Defense: 1.75},
		YangProsperity: {Attack: 2.75, Defense: 1.25},
		YinProsperity:  {Attack: 1.0, Defense: 2.5},
		ExtremeYang:    {Attack: 4.5, Defense: 0.5},
		ExtremeYin:     {Attack: 1.0, Defense: 3.0},
		UltimateQi:     {Attack: 1.0, Defense: 1.0},
	}
}

// Result is a classified allocation.
type Result struct {
	State      State
	Multiplier Multiplier
}

// Lookup classifies diff and returns its multipliers.
func (t Table) Lookup(diff float64) Result {
	s := Classify(diff)
	return Result{State: s, Multiplier: t.For(s)}
}

// For returns the multiplier pair for s.
func (t Table) For(s State) Multiplier {
	m, ok := t[s]
	if !ok || s == Undefined || (m.Attack == 0 && m.Defense == 0) {
		return Neutral
	}
	return m
}

// Scale applies m to an allocation, flooring to integer stats.
func Scale(yang, yin float64, m Multiplier) (attack, defense int) {
	return Floor(yang * m.Attack), Floor(yin * m.Defense)
}

// Floor converts a non-negative stat to int, clamping negatives and NaN to 0.
func Floor(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return int(math.Floor(v))
}
