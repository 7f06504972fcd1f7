package api

import (
	"errors"
	"net/http"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/symptoms"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/web"
)

type analyzeRequest struct {
	Symptoms string `json:"symptoms"`
}

// handleAnalyze runs one analysis and returns the result object.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := readJSON(w, r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request", "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "request", "invalid request body")
		return
	}

	result, err := s.service.Analyze(r.Context(), req.Symptoms)
	if err != nil {
		s.writeAnalysisError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleAnalyzeStream runs one analysis and streams its progress as
// Server-Sent Events, ending with a done or error event.
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("symptoms")

	emitter := web.NewSSEEmitter(w)
	if emitter == nil {
		writeError(w, http.StatusInternalServerError, "request", "streaming not supported")
		return
	}
	emitter.WriteHeaders()

	if _, err := s.service.AnalyzeStream(r.Context(), query, emitter); err != nil {
		s.log.WithField("request_id", RequestID(r.Context())).WithError(err).Debug("streamed analysis failed")
	}
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	var se *symptoms.Error
	if !errors.As(err, &se) {
		s.log.WithField("request_id", RequestID(r.Context())).WithError(err).Error("unexpected analysis error")
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	writeError(w, status, se.KindName(), se.Message)
}

// statusFor maps an analysis failure kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, symptoms.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, symptoms.ErrConfiguration):
		return http.StatusServiceUnavailable
	case errors.Is(err, symptoms.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
