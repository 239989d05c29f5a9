package observability

import "github.com/timestudy/timestudy/internal/event_bus"

// CountTransitions increments the time log event counter for every persisted employee transition.
func CountTransitions(bus *event_bus.EventBus) (unsubscribe func()) {
	return event_bus.SubscribeTyped(bus, event_bus.EmployeeTransitionedType,
		func(e event_bus.EventT[event_bus.EmployeeTransitioned]) error {
			RecordTimeLogEvent(e.Data.Event)
			return nil
		})
}
