package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/catalog-browser/internal/domain"
	"github.com/kahvecikaan/catalog-browser/internal/events"
	"github.com/kahvecikaan/catalog-browser/internal/service"
	"net/http"
)

// Client actions
const (
	ActionSet     = "set"
	ActionClear   = "clear"
	ActionReplace = "replace"
)

// Server event types
const (
	EventSession         = "session"
	EventResults         = "results"
	EventError           = "error"
	EventCatalogReloaded = "catalog_reloaded"
	EventReloadFailed    = "catalog_reload_failed"
)

const maxMessageBytes = 64 << 10

var errInvalidMessage = errors.New("invalid message")

type Handler struct {
	Upgrader websocket.Upgrader
	Log      hclog.Logger
	EventBus *events.EventBus[any]
	Service  service.CatalogService
}

// ClientMessage is one edit sent by the browser. Seq is chosen by the
// client and echoed on the reply so stale results can be discarded.
type ClientMessage struct {
	Seq      uint64                 `json:"seq"`
	Action   string                 `json:"action"`
	Field    domain.Field           `json:"field,omitempty"`
	Value    string                 `json:"value,omitempty"`
	Criteria *domain.FilterCriteria `json:"criteria,omitempty"`
}

type Message struct {
	EventType string      `json:"event-type"`
	Seq       uint64      `json:"seq"`
	Data      interface{} `json:"data"`
}

type SessionData struct {
	ID string `json:"id"`
}

type ResultsData struct {
	Criteria domain.FilterCriteria `json:"criteria"`
	Products []*domain.Product     `json:"products"`
	Matched  int                   `json:"matched"`
	Total    int                   `json:"total"`
	Version  uint64                `json:"version"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func NewHandler(log hclog.Logger, eventBus *events.EventBus[any], cs service.CatalogService) *Handler {
	return &Handler{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		Log:      log,
		EventBus: eventBus,
		Service:  cs,
	}
}

// session is the per-connection filter state. Only the HandleWebSocket
// goroutine touches it.
type session struct {
	id       string
	conn     *websocket.Conn
	criteria domain.FilterCriteria
	lastSeq  uint64
	log      hclog.Logger
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error("Unable to upgrade to WebSocket", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageBytes)

	s := &session{id: uuid.New().String(), conn: conn}
	s.log = h.Log.With("session", s.id)
	s.log.Info("Filter session opened", "remote", r.RemoteAddr)

	// Subscribe before the first results so no reload is missed
	subscriber := h.EventBus.Subscribe()
	defer h.EventBus.Unsubscribe(subscriber)

	ctx := r.Context()
	if err := s.send(EventSession, 0, SessionData{ID: s.id}); err != nil {
		return
	}
	if err := h.sendResults(ctx, s); err != nil {
		return
	}

	inbox := make(chan []byte)
	quit := make(chan struct{})
	defer close(quit)

	go h.readPump(s, inbox, quit)

	for {
		select {
		case raw, ok := <-inbox:
			if !ok {
				s.log.Info("Filter session closed by the client")
				return
			}
			if err := h.handleMessage(ctx, s, raw); err != nil {
				s.log.Error("Error writing message to WebSocket", "error", err)
				return
			}

		case event, ok := <-subscriber:
			if !ok {
				return
			}
			if err := h.handleEvent(ctx, s, event); err != nil {
				s.log.Error("Error writing message to WebSocket", "error", err)
				return
			}
		}
	}
}

// handleMessage applies one edit and answers with exactly one message.
// Errors returned are write errors; bad input is reported to the client.
func (h *Handler) handleMessage(ctx context.Context, s *session, raw []byte) error {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return s.send(EventError, msg.Seq, ErrorData{Message: fmt.Sprintf("%v: %v", errInvalidMessage, err)})
	}

	next := s.criteria
	if err := applyEdit(&next, msg); err != nil {
		s.log.Debug("Rejected edit", "seq", msg.Seq, "error", err)
		return s.send(EventError, msg.Seq, ErrorData{Message: err.Error()})
	}

	s.criteria = next
	s.lastSeq = msg.Seq
	return h.sendResults(ctx, s)
}

func applyEdit(c *domain.FilterCriteria, msg ClientMessage) error {
	switch msg.Action {
	case ActionSet:
		return c.Set(msg.Field, msg.Value)
	case ActionClear:
		c.Clear()
		return nil
	case ActionReplace:
		if msg.Criteria == nil {
			return fmt.Errorf("%w: replace without criteria", errInvalidMessage)
		}
		*c = *msg.Criteria
		return nil
	default:
		return fmt.Errorf("%w: unknown action %q", errInvalidMessage, msg.Action)
	}
}

func (h *Handler) handleEvent(ctx context.Context, s *session, event any) error {
	switch e := event.(type) {
	case events.CatalogReloaded:
		if err := s.send(EventCatalogReloaded, s.lastSeq, e); err != nil {
			return err
		}
		return h.sendResults(ctx, s)
	case events.CatalogReloadFailed:
		return s.send(EventReloadFailed, s.lastSeq, e)
	default:
		return nil
	}
}

func (h *Handler) sendResults(ctx context.Context, s *session) error {
	result, err := h.Service.FilterProducts(ctx, s.criteria)
	if err != nil {
		s.log.Error("Error filtering products", "error", err)
		return s.send(EventError, s.lastSeq, ErrorData{Message: "error filtering products"})
	}

	return s.send(EventResults, s.lastSeq, ResultsData{
		Criteria: s.criteria,
		Products: result.Products,
		Matched:  result.Matched,
		Total:    result.Total,
		Version:  result.Version,
	})
}

func (s *session) send(eventType string, seq uint64, data interface{}) error {
	payload, err := json.Marshal(Message{EventType: eventType, Seq: seq, Data: data})
	if err != nil {
		s.log.Error("Error marshalling message", "error", err)
		return nil
	}

	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

func (h *Handler) readPump(s *session, inbox chan<- []byte, quit <-chan struct{}) {
	defer close(inbox)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.log.Error("Error reading message", "error", err)
			}
			return
		}

		select {
		case inbox <- data:
		case <-quit:
			return
		}
	}
}
