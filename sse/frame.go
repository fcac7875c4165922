package sse

import (
	"fmt"
	"io"
)

// Generic SSE event type constants. Domain event payloads are defined
// where they are published (see the stream package).
const (
	// EventTypeConnected is sent when a client successfully connects.
	EventTypeConnected = "connected"

	// EventTypeKeepAlive is used for keep-alive comments.
	EventTypeKeepAlive = "keepalive"

	// EventTypeTick is sent for tick payloads on the live feed.
	EventTypeTick = "tick"
)

// WriteData writes a single SSE data frame: "data: <payload>\n\n".
func WriteData(w io.Writer, data []byte) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// WriteEvent writes a named SSE event followed by its data frame.
func WriteEvent(w io.Writer, event string, data []byte) error {
	if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
		return err
	}
	return WriteData(w, data)
}

// WriteComment writes an SSE comment line (lines starting with : are
// ignored by EventSource but keep intermediaries from timing out).
func WriteComment(w io.Writer, comment string) error {
	_, err := fmt.Fprintf(w, ": %s\n\n", comment)
	return err
}
