package handlers

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/ragfloe/backend/internal/chat"
	"github.com/ragfloe/backend/internal/metrics"
	"github.com/ragfloe/backend/internal/storage/models"
	"github.com/ragfloe/backend/pkg/logger"
)

type WebSocketHandler struct {
	sessions *chat.Manager
}

func NewWebSocketHandler(sessions *chat.Manager) *WebSocketHandler {
	return &WebSocketHandler{sessions: sessions}
}

type wsRequest struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
}

type wsError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// HandleConnection streams console events to one dashboard tab. Inbound
// messages submit queries or clear the transcript; everything else flows
// outward as turn, chunk, complete and cleared events.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	projectID := c.Params("id")
	sess := h.sessions.Get(projectID)

	logger.Info("Console WebSocket connected", zap.String("project_id", projectID))

	// The gorilla connection underneath allows one concurrent writer, and
	// events arrive from timer goroutines while errors come from the read
	// loop.
	var writeMu sync.Mutex
	send := func(v interface{}) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := c.WriteJSON(v); err != nil {
			logger.Debug("WebSocket write failed", zap.Error(err))
		}
	}

	var revealStart time.Time
	sess.SetListener(func(ev chat.Event) {
		switch ev.Type {
		case chat.EventTurn:
			if ev.Turn != nil && ev.Turn.Role == models.RoleAssistant {
				revealStart = time.Now()
			}
		case chat.EventComplete:
			if !revealStart.IsZero() {
				metrics.RevealDuration.Observe(time.Since(revealStart).Seconds())
				revealStart = time.Time{}
			}
		}
		send(ev)
	})
	defer func() {
		sess.SetListener(nil)
		logger.Info("Console WebSocket disconnected", zap.String("project_id", projectID))
	}()

	// Replay current state so a reconnecting tab does not start blank.
	send(sess.Snapshot())

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			send(wsError{Type: "error", Error: "Invalid message format"})
			continue
		}

		switch req.Type {
		case "query":
			if err := sess.SubmitQuery(req.Query); err != nil {
				metrics.ConsoleQueries.WithLabelValues("rejected").Inc()
				send(wsError{Type: "error", Error: err.Error()})
				continue
			}
			metrics.ConsoleQueries.WithLabelValues("accepted").Inc()
		case "clear":
			sess.Clear()
		default:
			send(wsError{Type: "error", Error: "Unknown message type"})
		}
	}
}
