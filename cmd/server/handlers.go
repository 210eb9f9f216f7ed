package main

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/protocol"
	"github.com/Ko-stant/battlemap/internal/web/views"
	"github.com/Ko-stant/battlemap/internal/ws"
)

func newMux(host *Host, bc *hubBroadcaster, staticDir string, log logrus.FieldLogger) *http.ServeMux {
	mux := http.NewServeMux()
	fileServer := http.FileServer(http.Dir(staticDir))
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))

	mux.HandleFunc("/player", pageHandler(host, protocol.ViewPlayer))
	mux.HandleFunc("/operator", pageHandler(host, protocol.ViewOperator))
	mux.HandleFunc("/stream", streamHandler(host, bc, log))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/player", http.StatusFound)
	})
	return mux
}

func pageHandler(host *Host, view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := views.IndexPage(host.Snapshot(view)).Render(r.Context(), w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func streamHandler(host *Host, bc *hubBroadcaster, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := r.URL.Query().Get("view")
		if view == "" {
			view = protocol.ViewPlayer
		}
		hub, ok := bc.Hub(view)
		if !ok {
			http.Error(w, "unknown view", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			log.WithError(err).Warn("websocket accept failed")
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		hub.Add(conn)
		defer hub.Remove(conn)

		hello, err := bc.envelope(protocol.TypeSnapshot, host.Snapshot(view))
		if err != nil {
			log.WithError(err).Error("failed to encode snapshot")
			return
		}
		if err := hub.Send(conn, hello); err != nil {
			return
		}

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			var env protocol.IntentEnvelope
			if err := json.Unmarshal(data, &env); err != nil {
				sendError(hub, bc, conn, NewGameError(CodeBadIntent, "malformed intent: %v", err), log)
				continue
			}
			if err := host.HandleIntent(view, env); err != nil {
				sendError(hub, bc, conn, asGameError(err, CodeBadIntent), log)
			}
		}
	}
}

func sendError(hub *ws.Hub, bc *hubBroadcaster, conn *websocket.Conn, ge *GameError, log logrus.FieldLogger) {
	log.WithField("code", ge.Code).Debug(ge.Message)
	msg, err := bc.envelope(protocol.TypeError, protocol.ErrorMessage{Code: ge.Code, Message: ge.Message})
	if err != nil {
		return
	}
	if err := hub.Send(conn, msg); err != nil {
		log.WithError(err).Debug("failed to send error")
	}
}
