// Package web streams analysis progress to browsers.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/symptoms"
)

// SSEEmitter implements symptoms.ProgressEmitter by writing Server-Sent Events.
type SSEEmitter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEEmitter creates an SSEEmitter for the given ResponseWriter.
// Returns nil if the writer does not support flushing.
func NewSSEEmitter(w http.ResponseWriter) *SSEEmitter {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil
	}
	return &SSEEmitter{w: w, flusher: f}
}

// WriteHeaders sets the event-stream headers. Call it before the first Emit.
func (e *SSEEmitter) WriteHeaders() {
	h := e.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	e.w.WriteHeader(http.StatusOK)
	e.flusher.Flush()
}

// Emit writes a progress event as an SSE data line and flushes.
func (e *SSEEmitter) Emit(ev symptoms.ProgressEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", ev.Type, data)
	e.flusher.Flush()
}
