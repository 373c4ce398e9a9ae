package engine

import "time"

// Event is one input the shell feeds into State.Apply.
type Event interface {
	isEvent()
}

// Tick carries a monotonic timestamp; the engine advances by the time since
// the previous Tick.
type Tick struct {
	Now time.Time
}

// Click selects a candidate symbol (click mode).
type Click struct {
	Symbol rune
}

// PointerEnter moves pointer focus onto the candidate at Slot (dwell mode).
// A non-zero Symbol must still occupy the slot, otherwise the event is stale.
type PointerEnter struct {
	Slot   int
	Symbol rune
}

// PointerExit removes pointer focus from all candidates (dwell mode).
type PointerExit struct{}

// Reset discards all progress and starts a new session.
type Reset struct{}

func (Tick) isEvent()         {}
func (Click) isEvent()        {}
func (PointerEnter) isEvent() {}
func (PointerExit) isEvent()  {}
func (Reset) isEvent()        {}
