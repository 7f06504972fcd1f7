package symptoms

import (
	"fmt"
	"io"

	"github.com/GogikarMahashri/MEDCARE-QR/pkg/models"
)

// Stages reported while an analysis runs.
const (
	StageValidating = "validating"
	StageMock       = "mock"
	StageGenerating = "generating"
	StageDone       = "done"
	StageFailed     = "error"
)

// ProgressEvent is a single state transition of one Analyze call.
type ProgressEvent struct {
	Type      string                 `json:"type"`                 // one of the Stage constants
	Strategy  string                 `json:"strategy,omitempty"`   // "mock" or "generative"
	Message   string                 `json:"message,omitempty"`    // human-readable message
	Kind      string                 `json:"kind,omitempty"`       // failure kind, for "error"
	ElapsedMs int64                  `json:"elapsed_ms,omitempty"` // time since the call started
	Result    *models.AnalysisResult `json:"result,omitempty"`     // final result, for "done"
}

// ProgressEmitter receives progress events during analysis.
type ProgressEmitter interface {
	Emit(event ProgressEvent)
}

// TextEmitter formats progress events as human-readable text for CLI output.
type TextEmitter struct {
	W io.Writer
}

// Emit writes a formatted progress line to the underlying writer.
func (e *TextEmitter) Emit(ev ProgressEvent) {
	switch ev.Type {
	case StageValidating:
		fmt.Fprintf(e.W, "[%s] checking description\n", ev.Strategy)
	case StageMock:
		fmt.Fprintf(e.W, "[%s] preparing suggestions\n", ev.Strategy)
	case StageGenerating:
		fmt.Fprintf(e.W, "[%s] %s\n", ev.Strategy, ev.Message)
	case StageDone:
		fmt.Fprintf(e.W, "[%s] done in %s\n", ev.Strategy, formatDuration(ev.ElapsedMs))
	case StageFailed:
		// The message itself is reported once, by whoever handles the error.
		fmt.Fprintf(e.W, "[%s] failed (%s) after %s\n", ev.Strategy, ev.Kind, formatDuration(ev.ElapsedMs))
	}
}

// formatDuration renders milliseconds as "850ms" or "1.2s".
func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}
