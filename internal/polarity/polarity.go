// Package polarity classifies a Yang/Yin allocation difference into one of the
// eight polarity states and looks up the attack/defense multipliers for it.
package polarity

import (
	"fmt"
	"math"
	"strings"
)

// State is a discrete polarity band derived from yang - yin.
type State int

const (
	Undefined State = iota
	Balance
	CriticalYang
	CriticalYin
	YangProsperity
	YinProsperity
	ExtremeYang
	ExtremeYin
	UltimateQi
)

// States lists every defined state in classification order.
var States = []State{
	Balance,
	CriticalYang,
	CriticalYin,
	YangProsperity,
	YinProsperity,
	ExtremeYang,
	ExtremeYin,
	UltimateQi,
}

func (s State) String() string {
	switch s {
	case Balance:
		return "Balance"
	case CriticalYang:
		return "Critical Yang"
	case CriticalYin:
		return "Critical Yin"
	case YangProsperity:
		return "Yang Prosperity"
	case YinProsperity:
		return "Yin Prosperity"
	case ExtremeYang:
		return "Extreme Yang"
	case ExtremeYin:
		return "Extreme Yin"
	case UltimateQi:
		return "Ultimate Qi"
	default:
		return "Undefined"
	}
}

// Key returns the snake_case identifier used in YAML files.
func (s State) Key() string {
	return strings.ReplaceAll(strings.ToLower(s.String()), " ", "_")
}

// ParseState is the inverse of Key.
func ParseState(key string) (State, error) {
	if key == Undefined.Key() {
		return Undefined, nil
	}
	for _, s := range States {
		if s.Key() == key {
			return s, nil
		}
	}
	return Undefined, fmt.Errorf("unknown polarity state %q", key)
}

// MarshalYAML writes the state as its key.
func (s State) MarshalYAML() (any, error) {
	return s.Key(), nil
}

// UnmarshalYAML reads a state key.
func (s *State) UnmarshalYAML(unmarshal func(any) error) error {
	var key string
	if err := unmarshal(&key); err != nil {
		return err
	}
	parsed, err := ParseState(key)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsCritical reports whether s is one of the two critical states.
func (s State) IsCritical() bool {
	return s == CriticalYang || s == CriticalYin
}

// IsExtreme reports whether s is gated behind an unlock.
func (s State) IsExtreme() bool {
	return s == ExtremeYang || s == ExtremeYin
}

// CriticalFor returns the critical state whose triggers unlock the extreme state s.
func (s State) CriticalFor() State {
	switch s {
	case ExtremeYang:
		return CriticalYang
	case ExtremeYin:
		return CriticalYin
	default:
		return Undefined
	}
}

// Band edges of the continuous-dial table.
const (
	balanceEdge    = 1.0
	criticalEdge   = 2.5
	prosperityEdge = 5.0
	extremeEdge    = 7.0
	ultimateEdge   = 10.0
)

// Classify maps diff = yang - yin to a state. Bands are evaluated in order and
// the first match wins; NaN and out-of-range values fall through to Undefined.
func Classify(diff float64) State {
	abs := math.Abs(diff)
	switch {
	case abs < balanceEdge:
		return Balance
	case diff >= balanceEdge && diff <= criticalEdge:
		return CriticalYang
	case diff >= -criticalEdge && diff <= -balanceEdge:
		return CriticalYin
	case diff > criticalEdge && diff < prosperityEdge:
		return YangProsperity
	case diff > -prosperityEdge && diff < -criticalEdge:
		return YinProsperity
	case diff >= prosperityEdge && diff <= extremeEdge:
		return ExtremeYang
	case diff >= -extremeEdge && diff <= -prosperityEdge:
		return ExtremeYin
	case abs > extremeEdge && abs <= ultimateEdge:
		return UltimateQi
	default:
		return Undefined
	}
}
