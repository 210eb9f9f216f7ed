package main

// Broadcaster fans patch envelopes out to connected views.
type Broadcaster interface {
	// BroadcastEvent sends the same payload to every view.
	BroadcastEvent(eventType string, payload any)
	// BroadcastView sends to the connections of one view only.
	BroadcastView(view, eventType string, payload any)
}
