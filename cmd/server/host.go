package main

import (
	"context"
	"strings"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/logging"
	"github.com/Ko-stant/battlemap/internal/protocol"
	"github.com/Ko-stant/battlemap/internal/scene"
	"github.com/Ko-stant/battlemap/internal/session"
	"github.com/Ko-stant/battlemap/internal/visibility"
)

// Host serialises ticks and operator intents over one session and pushes the
// results to the connected views.
type Host struct {
	mu      deadlock.Mutex
	session *session.Session
	store   scene.Store
	scene   string
	frame   visibility.Frame

	bc      Broadcaster
	metrics *Metrics
	log     logrus.FieldLogger
}

func NewHost(s *session.Session, store scene.Store, bc Broadcaster, metrics *Metrics, log logrus.FieldLogger) *Host {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Host{
		session: s,
		store:   store,
		bc:      bc,
		metrics: metrics,
		log:     logging.OrDiscard(log).WithField("component", "host"),
	}
}

// Run ticks every interval until ctx is cancelled.
func (h *Host) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.log.WithField("interval", interval).Info("tick loop started")
	for {
		select {
		case <-ctx.Done():
			h.log.Info("tick loop stopped")
			return
		case <-ticker.C:
			_ = h.Tick()
		}
	}
}

// Tick advances the session one step and broadcasts the new frame. Polygons
// only go to the operator view.
func (h *Host) Tick() error {
	start := time.Now()

	h.mu.Lock()
	frame, err := h.session.Tick()
	h.frame = frame
	player := buildFrameUpdate(h.session, frame, false)
	operator := buildFrameUpdate(h.session, frame, true)
	h.mu.Unlock()

	h.metrics.TrackTick(time.Since(start))
	if err != nil {
		h.log.WithError(err).Warn("tick finished with unrepaired entities")
	}

	h.bc.BroadcastView(protocol.ViewPlayer, protocol.TypeFrameUpdated, player)
	h.bc.BroadcastView(protocol.ViewOperator, protocol.TypeFrameUpdated, operator)
	return err
}

// Snapshot renders the current state for view.
func (h *Host) Snapshot(view string) protocol.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked(view)
}

func (h *Host) snapshotLocked(view string) protocol.Snapshot {
	start := time.Now()
	s := buildSnapshot(h.session, view, h.scene, h.frame)
	h.metrics.TrackSnapshot(time.Since(start))
	return s
}

func (h *Host) publishSnapshots(player, operator protocol.Snapshot) {
	h.bc.BroadcastView(protocol.ViewPlayer, protocol.TypeSnapshot, player)
	h.bc.BroadcastView(protocol.ViewOperator, protocol.TypeSnapshot, operator)
}

// Scene returns the name of the last loaded or saved scene.
func (h *Host) Scene() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scene
}

// LoadScene applies a stored layout and republishes both views.
func (h *Host) LoadScene(name string) error {
	placements, err := h.store.Load(name)
	if err != nil {
		return err
	}

	h.mu.Lock()
	applied := h.session.ApplyLayout(placements)
	h.scene = name
	player, operator := h.snapshotLocked(protocol.ViewPlayer), h.snapshotLocked(protocol.ViewOperator)
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{"scene": name, "applied": applied}).Info("scene applied")
	h.publishSnapshots(player, operator)
	return h.publishScenes()
}

func (h *Host) SaveScene(name string) error {
	h.mu.Lock()
	placements := h.session.World().ListSegments()
	h.mu.Unlock()

	if err := h.store.Save(name, placements); err != nil {
		return err
	}
	h.mu.Lock()
	h.scene = name
	h.mu.Unlock()
	return h.publishScenes()
}

func (h *Host) DeleteScene(name string) error {
	if err := h.store.Delete(name); err != nil {
		return err
	}
	h.mu.Lock()
	if h.scene == name {
		h.scene = ""
	}
	h.mu.Unlock()
	return h.publishScenes()
}

func (h *Host) publishScenes() error {
	names, err := h.store.Names()
	if err != nil {
		return err
	}
	h.bc.BroadcastView(protocol.ViewOperator, protocol.TypeSceneList, protocol.SceneList{Names: names, Current: h.Scene()})
	return nil
}

// HandleIntent applies one client intent. Player connections are read-only.
func (h *Host) HandleIntent(view string, env protocol.IntentEnvelope) error {
	if view != protocol.ViewOperator {
		return NewGameError(CodeReadOnly, "%s view cannot send %s", view, env.Type)
	}

	start := time.Now()
	defer func() { h.metrics.TrackIntent(time.Since(start)) }()

	switch env.Type {
	case protocol.IntentSelectAt:
		return h.withTile(env, h.selectAt)
	case protocol.IntentClickMove:
		return h.withTile(env, h.clickMove)
	case protocol.IntentToggleEditor:
		h.mu.Lock()
		h.session.ToggleEditor()
		changed := h.selectionLocked()
		h.mu.Unlock()
		h.bc.BroadcastView(protocol.ViewOperator, protocol.TypeSelectionChanged, changed)
		return nil
	case protocol.IntentPointerDown:
		return h.withTile(env, func(t protocol.RequestTile) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.session.PointerDown(t.X, t.Y)
			return nil
		})
	case protocol.IntentPointerMove:
		return h.withTile(env, h.layoutChange(func(t protocol.RequestTile) bool {
			return h.session.PointerMove(t.X, t.Y)
		}))
	case protocol.IntentPointerUp:
		return h.withTile(env, h.layoutChange(func(t protocol.RequestTile) bool {
			return h.session.PointerUp(t.X, t.Y)
		}))
	case protocol.IntentToggleSegmentAt:
		return h.withTile(env, h.layoutChange(func(t protocol.RequestTile) bool {
			_, ok := h.session.ToggleSegmentAt(t.X, t.Y)
			return ok
		}))
	case protocol.IntentSaveScene:
		return h.withScene(env, h.SaveScene)
	case protocol.IntentLoadScene:
		return h.withScene(env, h.LoadScene)
	case protocol.IntentDeleteScene:
		return h.withScene(env, h.DeleteScene)
	case protocol.IntentListScenes:
		if err := h.publishScenes(); err != nil {
			return asGameError(err, CodeSceneStore)
		}
		return nil
	default:
		return NewGameError(CodeBadIntent, "unknown intent %q", env.Type)
	}
}

func (h *Host) withTile(env protocol.IntentEnvelope, fn func(protocol.RequestTile) error) error {
	t, err := protocol.DecodePayload[protocol.RequestTile](env)
	if err != nil {
		return NewGameError(CodeBadPayload, "%v", err)
	}
	return fn(t)
}

func (h *Host) withScene(env protocol.IntentEnvelope, fn func(string) error) error {
	req, err := protocol.DecodePayload[protocol.RequestScene](env)
	if err != nil {
		return NewGameError(CodeBadPayload, "%v", err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return NewGameError(CodeBadPayload, "%s needs a scene name", env.Type)
	}
	if err := fn(name); err != nil {
		return asGameError(err, CodeSceneStore)
	}
	return nil
}

func (h *Host) selectionLocked() protocol.SelectionChanged {
	state := h.session.State()
	changed := protocol.SelectionChanged{Selected: state.Selected, EditorMode: state.EditorMode}
	if e := h.session.Selected(); e != nil {
		changed.EntityID = e.ID
	}
	return changed
}

func (h *Host) selectAt(t protocol.RequestTile) error {
	h.mu.Lock()
	ok := h.session.SelectAt(t.X, t.Y)
	changed := h.selectionLocked()
	h.mu.Unlock()

	if ok {
		h.bc.BroadcastEvent(protocol.TypeSelectionChanged, changed)
	}
	return nil
}

func (h *Host) clickMove(t protocol.RequestTile) error {
	h.mu.Lock()
	err := h.session.ClickMove(t.X, t.Y)
	h.mu.Unlock()
	if err != nil {
		return asGameError(err, CodeNoWalkable)
	}
	return nil
}

// layoutChange wraps an editor action; when it reports a change both views
// get a fresh snapshot.
func (h *Host) layoutChange(apply func(protocol.RequestTile) bool) func(protocol.RequestTile) error {
	return func(t protocol.RequestTile) error {
		h.mu.Lock()
		if !apply(t) {
			h.mu.Unlock()
			return nil
		}
		player, operator := h.snapshotLocked(protocol.ViewPlayer), h.snapshotLocked(protocol.ViewOperator)
		h.mu.Unlock()

		h.publishSnapshots(player, operator)
		return nil
	}
}
