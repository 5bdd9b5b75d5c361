package api

import (
	"sync"
)

// EventType identifies the kind of event being broadcast to WebSocket
// clients.
type EventType string

const (
	// EventTypePosition is emitted whenever a session's cursor moves.
	EventTypePosition EventType = "position"
	// EventTypeDecode is emitted as a session's trace is decoded.
	EventTypeDecode EventType = "decode"
	// EventTypeWatch is emitted when a session's watch set changes.
	EventTypeWatch EventType = "watch"
)

// IsValid reports whether e is one of the known broadcast event types.
func (e EventType) IsValid() bool {
	switch e {
	case EventTypePosition, EventTypeDecode, EventTypeWatch:
		return true
	default:
		return false
	}
}

// BroadcastEvent is a single event sent to subscribed WebSocket clients.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// Subscription represents a client's subscription to events.
type Subscription struct {
	SessionID  string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans out events to multiple WebSocket clients, each with
// its own subscription filter.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster creates and starts a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.SessionID != "" && sub.SessionID != event.SessionID {
					continue
				}
				if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
					continue
				}

				select {
				case sub.Channel <- event:
				default:
					// Client is too slow, skip this event.
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe creates a new subscription. sessionID filters to a single
// session (empty = all sessions); eventTypes filters by type (empty =
// all types).
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	eventTypeMap := make(map[EventType]bool)
	for _, et := range eventTypes {
		eventTypeMap[et] = true
	}

	sub := &Subscription{
		SessionID:  sessionID,
		EventTypes: eventTypeMap,
		Channel:    make(chan BroadcastEvent, 64),
	}

	b.register <- sub
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast sends an event to all matching subscriptions.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
		// Broadcast channel is full, drop the event rather than block
		// the caller.
	}
}

// BroadcastPosition sends a cursor-position change event.
func (b *Broadcaster) BroadcastPosition(sessionID string, position, total int) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypePosition,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"position": position,
			"total":    total,
		},
	})
}

// BroadcastDecodeProgress sends a decode-progress event.
func (b *Broadcaster) BroadcastDecodeProgress(sessionID string, decoded, total int) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeDecode,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"decoded": decoded,
			"total":   total,
		},
	})
}

// BroadcastWatchChange sends a watch-set change event.
func (b *Broadcaster) BroadcastWatchChange(sessionID string, watchID int, action string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeWatch,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"watchId": watchID,
			"action":  action,
		},
	})
}

// Close shuts down the broadcaster and closes all subscriptions.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
