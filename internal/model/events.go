package model

// Event is the side-effect tag surfaced after a committed move.
type Event string

const (
	EventGameOver  Event = "gameOver"
	EventCheck     Event = "check"
	EventPromotion Event = "promotion"
	EventFieldWon  Event = "fieldWon"
	EventCapture   Event = "capture"
	EventMove      Event = "move"
)

var eventPriority = []Event{EventGameOver, EventCheck, EventPromotion, EventFieldWon, EventCapture, EventMove}

// topEvent returns the highest priority event present, falling back to a
// plain move.
func topEvent(events map[Event]bool) Event {
	for _, e := range eventPriority {
		if events[e] {
			return e
		}
	}
	return EventMove
}
