package web

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/symptoms"
	"github.com/GogikarMahashri/MEDCARE-QR/pkg/models"
)

// noFlush hides the recorder's Flush method.
type noFlush struct {
	http.ResponseWriter
}

func readEvents(t *testing.T, body string) []symptoms.ProgressEvent {
	t.Helper()
	var events []symptoms.ProgressEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev symptoms.ProgressEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	require.NoError(t, scanner.Err())
	return events
}

func TestNewSSEEmitter_RequiresFlusher(t *testing.T) {
	assert.Nil(t, NewSSEEmitter(noFlush{httptest.NewRecorder()}))
	assert.NotNil(t, NewSSEEmitter(httptest.NewRecorder()))
}

func TestSSEEmitter_Emit(t *testing.T) {
	rec := httptest.NewRecorder()
	e := NewSSEEmitter(rec)
	require.NotNil(t, e)

	e.WriteHeaders()
	e.Emit(symptoms.ProgressEvent{Type: symptoms.StageValidating, Strategy: "mock"})
	e.Emit(symptoms.ProgressEvent{
		Type:     symptoms.StageDone,
		Strategy: "mock",
		Result:   &models.AnalysisResult{PossibleConditions: []string{"Rest"}},
	})

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.True(t, rec.Flushed)

	body := rec.Body.String()
	assert.Contains(t, body, "event: validating\n")
	assert.Contains(t, body, "event: done\n")

	events := readEvents(t, body)
	require.Len(t, events, 2)
	assert.Equal(t, symptoms.StageValidating, events[0].Type)
	require.NotNil(t, events[1].Result)
	assert.Equal(t, []string{"Rest"}, events[1].Result.PossibleConditions)
}
