package app

import (
	"github.com/timestudy/timestudy/internal/config"
	"github.com/timestudy/timestudy/internal/messaging"
	"github.com/timestudy/timestudy/internal/observability"
	log "github.com/sirupsen/logrus"
)

// Subscribe attaches the event bus consumers and returns a function detaching all of them.
func Subscribe(deps *Dependencies, cfg config.Application) (unsubscribe func()) {
	unsubscribers := []func(){
		observability.CountTransitions(deps.EventBus),
	}
	if cfg.Study.Ticker.Enabled {
		unsubscribers = append(unsubscribers, deps.LiveTicker.SubscribeToChanges(deps.EventBus))
	}
	if cfg.Kafka.Enabled {
		log.Infof("Forwarding employee transitions to topic %s", cfg.Kafka.Topics.Transitions)
		unsubscribers = append(unsubscribers, messaging.ForwardTransitions(deps.EventBus, deps.Publisher, cfg.Kafka.Topics.Transitions))
	}
	return func() {
		for _, unsub := range unsubscribers {
			unsub()
		}
	}
}
