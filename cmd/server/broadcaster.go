package main

import (
	"encoding/json"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/protocol"
	"github.com/Ko-stant/battlemap/internal/ws"
)

// hubBroadcaster numbers envelopes with one sequence shared by both views.
type hubBroadcaster struct {
	hubs     map[string]*ws.Hub
	sequence atomic.Uint64
	log      logrus.FieldLogger
}

func newHubBroadcaster(log logrus.FieldLogger, hubs ...*ws.Hub) *hubBroadcaster {
	b := &hubBroadcaster{hubs: make(map[string]*ws.Hub, len(hubs)), log: log}
	for _, h := range hubs {
		b.hubs[h.View()] = h
	}
	return b
}

func (b *hubBroadcaster) Hub(view string) (*ws.Hub, bool) {
	h, ok := b.hubs[view]
	return h, ok
}

func (b *hubBroadcaster) envelope(eventType string, payload any) ([]byte, error) {
	return json.Marshal(protocol.PatchEnvelope{
		Sequence: b.sequence.Add(1),
		Type:     eventType,
		Payload:  payload,
	})
}

func (b *hubBroadcaster) BroadcastEvent(eventType string, payload any) {
	for view := range b.hubs {
		b.BroadcastView(view, eventType, payload)
	}
}

func (b *hubBroadcaster) BroadcastView(view, eventType string, payload any) {
	h, ok := b.hubs[view]
	if !ok || h.Len() == 0 {
		return
	}
	msg, err := b.envelope(eventType, payload)
	if err != nil {
		b.log.WithError(err).WithField("type", eventType).Error("failed to encode patch")
		return
	}
	h.Broadcast(msg)
}
