// Package syncfeed streams store change events to remote clients over
// WebSocket so every open dashboard sees writes made by the others.
package syncfeed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"docusafe/internal/auth"
	"docusafe/internal/broadcast"
	"docusafe/internal/model"
	"docusafe/internal/store"
)

const (
	defaultWriteTimeout = 10 * time.Second
	pongWait            = 60 * time.Second
	pingPeriod          = (pongWait * 9) / 10
	maxMessageSize      = 512

	// CloseSessionEnded is sent when the session behind the token is replaced or removed.
	CloseSessionEnded = 4001
)

// keyCapability gates which store keys a role may watch.
var keyCapability = map[string]auth.Capability{
	store.KeyDocuments:  auth.CapDocumentsRead,
	store.KeyCategories: auth.CapDocumentsRead,
	store.KeyBranding:   auth.CapDocumentsRead,
	store.KeySession:    auth.CapDocumentsRead,
	store.KeyUsers:      auth.CapUsersManage,
	store.KeyLogs:       auth.CapLogsRead,
}

// Verifier resolves a session token to the signed-in user.
type Verifier interface {
	Verify(ctx context.Context, token string) (*model.PublicUser, error)
}

// Server serves the sync feed.
type Server struct {
	hub          *broadcast.Hub
	verifier     Verifier
	writeTimeout time.Duration
	pingPeriod   time.Duration
	log          *slog.Logger
	upgrader     websocket.Upgrader
}

// New builds a Server. A zero writeTimeout selects the default.
func New(hub *broadcast.Hub, verifier Verifier, writeTimeout time.Duration, log *slog.Logger) *Server {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &Server{
		hub:          hub,
		verifier:     verifier,
		writeTimeout: writeTimeout,
		pingPeriod:   pingPeriod,
		log:          log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Router returns the chi router of the sync listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/sync", s.handleSync)
	return r
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	user, err := s.verifier.Verify(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return
	}
	keys, err := allowedKeys(user.Role, r.URL.Query().Get("keys"))
	if err != nil {
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.log.WarnContext(r.Context(), "sync_upgrade_failed",
			"component", "syncfeed",
			"error", err.Error(),
		)
		return
	}

	s.log.InfoContext(r.Context(), "sync_client_connected",
		"component", "syncfeed",
		"request_id", chimw.GetReqID(r.Context()),
		"user_id", user.ID,
		"keys", keys,
	)
	s.serve(r.Context(), conn, bearerToken(r), keys)
	s.log.InfoContext(r.Context(), "sync_client_disconnected",
		"component", "syncfeed",
		"request_id", chimw.GetReqID(r.Context()),
		"user_id", user.ID,
	)
}

// serve pumps hub events to conn until the client leaves, falls behind or
// its session ends.
func (s *Server) serve(ctx context.Context, conn *websocket.Conn, token string, keys []string) {
	defer conn.Close()

	watch := append([]string{}, keys...)
	forwardSession := contains(keys, store.KeySession)
	if !forwardSession {
		watch = append(watch, store.KeySession)
	}
	sub := s.hub.Subscribe(watch...)
	defer sub.Close()

	done := make(chan struct{})
	go s.readPump(conn, done)

	ticker := time.NewTicker(s.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			s.closeWith(conn, websocket.CloseGoingAway, "server shutting down")
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeTimeout)); err != nil {
				return
			}
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			if sub.Dropped() > 0 {
				s.closeWith(conn, websocket.CloseTryAgainLater, "client too slow")
				return
			}
			if ev.Key == store.KeySession {
				if forwardSession {
					if err := s.write(conn, ev); err != nil {
						return
					}
				}
				if _, err := s.verifier.Verify(ctx, token); err != nil {
					s.closeWith(conn, CloseSessionEnded, "session ended")
					return
				}
				continue
			}
			if err := s.write(conn, redact(ev)); err != nil {
				return
			}
		}
	}
}

func (s *Server) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.log.Warn("sync_read_failed", "component", "syncfeed", "error", err.Error())
			}
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, ev broadcast.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return conn.WriteJSON(ev)
}

func (s *Server) closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.writeTimeout))
}

// allowedKeys parses the comma separated keys parameter. An empty list
// selects every key role may watch.
func allowedKeys(role model.Role, param string) ([]string, error) {
	var keys []string
	for _, k := range strings.Split(param, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		for _, k := range []string{store.KeyDocuments, store.KeyUsers, store.KeySession, store.KeyCategories, store.KeyLogs, store.KeyBranding} {
			if auth.Allowed(role, keyCapability[k]) {
				keys = append(keys, k)
			}
		}
		return keys, nil
	}
	for _, k := range keys {
		c, ok := keyCapability[k]
		if !ok {
			return nil, errors.New("unknown key " + k)
		}
		if !auth.Allowed(role, c) {
			return nil, errors.New("not allowed to watch " + k)
		}
	}
	return keys, nil
}

// redact strips password hashes from user registry payloads.
func redact(ev broadcast.Event) broadcast.Event {
	if ev.Key != store.KeyUsers || ev.Deleted {
		return ev
	}
	users, err := broadcast.Decode[[]model.User](ev)
	if err != nil {
		ev.Value = json.RawMessage("[]")
		return ev
	}
	public := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	raw, err := json.Marshal(public)
	if err != nil {
		ev.Value = json.RawMessage("[]")
		return ev
	}
	ev.Value = raw
	return ev
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
}
