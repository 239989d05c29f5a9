package messaging

import (
	"time"

	"github.com/timestudy/timestudy/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// TransitionMessage is the payload written to the transitions topic.
type TransitionMessage struct {
	StudyUid   string    `json:"studyUid"`
	EmployeeId int       `json:"employeeId"`
	Event      string    `json:"event"`
	ReasonCode string    `json:"reasonCode,omitempty"`
	At         time.Time `json:"at"`
}

// ForwardTransitions publishes every employee transition to topic, keyed by study uid so a
// study's events keep their order within one partition.
func ForwardTransitions(bus *event_bus.EventBus, publisher Publisher, topic string) (unsubscribe func()) {
	return event_bus.SubscribeTyped(bus, event_bus.EmployeeTransitionedType,
		func(e event_bus.EventT[event_bus.EmployeeTransitioned]) error {
			message := TransitionMessage{
				StudyUid:   e.Data.StudyUid,
				EmployeeId: e.Data.EmployeeId,
				Event:      e.Data.Event,
				ReasonCode: e.Data.ReasonCode,
				At:         e.Data.At,
			}
			if err := publisher.PublishJSON(e.Context(), topic, e.Data.StudyUid, message); err != nil {
				log.Warnf("failed to forward transition of employee %d: %v", e.Data.EmployeeId, err)
				return err
			}
			return nil
		})
}
