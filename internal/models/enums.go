package models

import (
	"fmt"
	"strings"
)

// Side identifies one of the two combatants.
type Side int

const (
	NoSide Side = iota
	Player
	Enemy
)

func (s Side) String() string {
	switch s {
	case Player:
		return "player"
	case Enemy:
		return "enemy"
	default:
		return "none"
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	switch s {
	case Player:
		return Enemy
	case Enemy:
		return Player
	default:
		return NoSide
	}
}

func (s Side) MarshalYAML() (any, error) { return s.String(), nil }

func (s *Side) UnmarshalYAML(unmarshal func(any) error) error {
	return unmarshalEnum(unmarshal, s, []Side{NoSide, Player, Enemy})
}

// Phase is the step of the turn state machine the battle is in.
type Phase int

const (
	PhaseAllocation Phase = iota
	PhaseResolution
	PhaseOpponentAction
	PhaseCleanup
	PhaseBattleEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseAllocation:
		return "allocation"
	case PhaseResolution:
		return "resolution"
	case PhaseOpponentAction:
		return "opponent_action"
	case PhaseCleanup:
		return "cleanup"
	case PhaseBattleEnd:
		return "battle_end"
	default:
		return "unknown"
	}
}

// ParsePhase converts a phase name back to a Phase.
func ParsePhase(name string) (Phase, error) {
	for _, p := range []Phase{PhaseAllocation, PhaseResolution, PhaseOpponentAction, PhaseCleanup, PhaseBattleEnd} {
		if p.String() == name {
			return p, nil
		}
	}
	return PhaseAllocation, fmt.Errorf("unknown phase %q", name)
}

func (p Phase) MarshalYAML() (any, error) { return p.String(), nil }

func (p *Phase) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParsePhase(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Action is what the opponent does on its turn.
type Action int

const (
	ActionNone Action = iota
	ActionAttack
	ActionDefend
	ActionCharge
)

func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionCharge:
		return "charge"
	default:
		return "none"
	}
}

func (a Action) MarshalYAML() (any, error) { return a.String(), nil }

func (a *Action) UnmarshalYAML(unmarshal func(any) error) error {
	return unmarshalEnum(unmarshal, a, []Action{ActionNone, ActionAttack, ActionDefend, ActionCharge})
}

// DebuffKind selects which attribute a timed debuff lowers.
type DebuffKind int

const (
	AttackDown DebuffKind = iota + 1
	DefenseDown
)

func (k DebuffKind) String() string {
	switch k {
	case AttackDown:
		return "attack_down"
	case DefenseDown:
		return "defense_down"
	default:
		return "none"
	}
}

func (k DebuffKind) MarshalYAML() (any, error) { return k.String(), nil }

func (k *DebuffKind) UnmarshalYAML(unmarshal func(any) error) error {
	return unmarshalEnum(unmarshal, k, []DebuffKind{AttackDown, DefenseDown})
}

func unmarshalEnum[T fmt.Stringer](unmarshal func(any) error, dst *T, values []T) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	for _, v := range values {
		if strings.EqualFold(v.String(), name) {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("unknown value %q", name)
}
