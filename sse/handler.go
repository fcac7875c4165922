package sse

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kbukum/tickstream/logger"
)

// keepAliveInterval must stay below typical proxy idle timeouts (60s).
const keepAliveInterval = 30 * time.Second

// ConnectedEvent is sent when a client successfully connects.
type ConnectedEvent struct {
	ClientID string            `json:"client_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SetStreamHeaders writes the response headers every SSE endpoint needs.
func SetStreamHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering
}

// ServeSSE handles an SSE connection for a specific client.
// It registers the client with the hub, relays hub events to the response,
// and tears the client down when the request context ends.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, opts ...ClientOption) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("[SSE] Streaming not supported", map[string]interface{}{
			"client_id": clientID,
		})
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// SSE connections are long-lived and must not be terminated by the
	// server's WriteTimeout setting.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Warn("[SSE] Could not disable write deadline", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
	}

	SetStreamHeaders(w.Header())

	client := NewClient(clientID, opts...)
	hub.Register(client)
	defer hub.Unregister(client)

	connectedData, _ := json.Marshal(ConnectedEvent{
		ClientID: clientID,
		Metadata: client.Metadata(),
	})
	_ = WriteEvent(w, EventTypeConnected, connectedData)
	flusher.Flush()

	logger.Debug("[SSE] Client connected", map[string]interface{}{
		"client_id":   clientID,
		"remote_addr": r.RemoteAddr,
	})

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			// Client disconnected (browser closed, network issue, etc.)
			logger.Debug("[SSE] Client disconnected", map[string]interface{}{
				"client_id": clientID,
				"reason":    ctx.Err().Error(),
			})
			return

		case event, ok := <-client.Events():
			if !ok {
				// Channel closed, client unregistered or hub stopped.
				logger.Debug("[SSE] Events channel closed", map[string]interface{}{
					"client_id": clientID,
				})
				return
			}
			_ = WriteData(w, event)
			flusher.Flush()

		case <-keepAlive.C:
			_ = WriteComment(w, EventTypeKeepAlive)
			flusher.Flush()
		}
	}
}
