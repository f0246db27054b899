package engine

import (
	"log/slog"

	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/polarity"
)

// EventKind identifies a notification.
type EventKind int

const (
	EventTurnStarted EventKind = iota + 1
	EventDamageResolved
	EventStateChanged
	EventBattleEnded
	EventIntentChanged
)

func (k EventKind) String() string {
	switch k {
	case EventTurnStarted:
		return "turn_started"
	case EventDamageResolved:
		return "damage_resolved"
	case EventStateChanged:
		return "state_changed"
	case EventBattleEnded:
		return "battle_ended"
	case EventIntentChanged:
		return "intent_changed"
	default:
		return "unknown"
	}
}

// Event is a fire-and-forget notification for presentation collaborators.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind   EventKind
	Side   models.Side
	Amount int
	State  polarity.State
	Action models.Action
}

// Listener receives events after the step that produced them has fully
// resolved. It must not call back into the engine.
type Listener func(Event)

func (e *Engine) emit(ev Event) {
	e.pending = append(e.pending, ev)
}

// flush hands pending events to the listener and returns them.
func (e *Engine) flush() []Event {
	events := e.pending
	e.pending = nil
	for _, ev := range events {
		e.notify(ev)
	}
	return events
}

func (e *Engine) notify(ev Event) {
	if e.listener == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("listener panicked", "event", ev.Kind, "panic", r)
		}
	}()
	e.listener(ev)
}
