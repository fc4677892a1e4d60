// Package telemetry provides tank health tracking, notable-moment detection,
// performance timing and CSV/JSON output.
package telemetry

// EventType identifies discrete ecosystem events.
type EventType uint8

const (
	EventStateChange EventType = iota
	EventPlantGrowth
	EventFoodDropped
	EventFoodEaten
)

func (t EventType) String() string {
	switch t {
	case EventStateChange:
		return "state_change"
	case EventPlantGrowth:
		return "plant_growth"
	case EventFoodDropped:
		return "food_dropped"
	case EventFoodEaten:
		return "food_eaten"
	}
	return "unknown"
}

// Event represents a single ecosystem event.
type Event struct {
	Type EventType
	Tick int

	// Optional fields depending on event type
	From   string  // previous fish state
	To     string  // new fish state
	Amount float64 // carbon eaten or plant length after growth
}

// NewStateChangeEvent creates a fish state transition event.
func NewStateChangeEvent(tick int, from, to string) Event {
	return Event{Type: EventStateChange, Tick: tick, From: from, To: to}
}

// NewPlantGrowthEvent creates a plant growth event. nodes is the chain
// length after growing.
func NewPlantGrowthEvent(tick, nodes int) Event {
	return Event{Type: EventPlantGrowth, Tick: tick, Amount: float64(nodes)}
}

// NewFoodDroppedEvent creates an event for a pellet entering the tank.
func NewFoodDroppedEvent(tick int) Event {
	return Event{Type: EventFoodDropped, Tick: tick}
}

// NewFoodEatenEvent creates an event for the fish eating a pellet.
func NewFoodEatenEvent(tick int, carbon float64) Event {
	return Event{Type: EventFoodEaten, Tick: tick, Amount: carbon}
}
