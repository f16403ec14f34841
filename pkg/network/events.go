package network

import "github.com/blastarena/server/pkg/messages"

// Connection events and client intents share the game loop's queue so
// the loop observes them in arrival order at tick boundaries.

// ClientConnected is enqueued when a WebSocket connection is accepted.
type ClientConnected struct {
	ClientID uint32
}

// ClientDisconnected is enqueued when a connection goes away for any
// reason.
type ClientDisconnected struct {
	ClientID uint32
}

// ClientMessage wraps an inbound intent with its connection identity.
// The identity comes from the accepted connection, never from the
// message body.
type ClientMessage struct {
	ClientID uint32
	Message  *messages.Message
}
