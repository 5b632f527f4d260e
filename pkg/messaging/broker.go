package messaging

import (
	"context"
)

// Broker is the transport appointments and account events are drained to.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Channels the agenda publishes on.
const (
	ChannelAppointments = "agenda.appointments"
	ChannelUsers        = "agenda.users"
)
