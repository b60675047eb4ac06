package events

import (
	platformevents "groenportaal_backend/platform/events"
	"groenportaal_backend/platform/logger"
)

// Bus is a type alias to the platform event bus interface.
type Bus = platformevents.Bus

// InMemoryBus is a type alias to the platform InMemoryBus.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
// This is a convenience re-export from platform/events.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
