package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibe/internal/apiclient"
	"github.com/cwbudde/algo-vibe/measure/vibration"
)

// maxPeaksLimit caps the peaks query parameter.
const maxPeaksLimit = 50

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

type query struct {
	axis     vibration.Axis
	unit     vibration.Unit
	maxPeaks int
}

func parseQuery(r *http.Request) (query, error) {
	q := query{axis: vibration.AxisHorizontal, unit: vibration.UnitG}
	values := r.URL.Query()

	if v := values.Get("axis"); v != "" {
		axis, err := vibration.ParseAxis(v)
		if err != nil {
			return q, err
		}
		q.axis = axis
	}

	if v := values.Get("unit"); v != "" {
		unit, err := vibration.ParseUnit(v)
		if err != nil {
			return q, err
		}
		q.unit = unit
	}

	if v := values.Get("peaks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxPeaksLimit {
			return q, fmt.Errorf("peaks must be an integer in [0, %d]", maxPeaksLimit)
		}
		q.maxPeaks = n
	}

	return q, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	var p vibration.Payload
	if err := s.format.decode(w, r, &p); err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("decode payload: %w", err))
		return
	}

	s.respond(w, r, http.StatusOK, s.analyze(p, q))
}

func (s *Server) handleSensorAnalysis(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	p, ok := s.fetch(w, r)
	if !ok {
		return
	}

	s.respond(w, r, http.StatusOK, s.analyze(p, q))
}

func (s *Server) handleSensorSummary(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	p, ok := s.fetch(w, r)
	if !ok {
		return
	}

	summary := s.analyzer.Summarize(p, q.unit)
	for _, axis := range summary.Axes {
		s.countAnalysis(q.unit, p.Input(axis.Axis).Kind(), axis.HasData)
	}

	s.respond(w, r, http.StatusOK, summary)
}

func (s *Server) analyze(p vibration.Payload, q query) vibration.Result {
	in := p.Input(q.axis)

	var res vibration.Result
	if q.maxPeaks > 0 {
		res = s.analyzer.AnalyzeTop(in, p.SensorConfig(), q.unit, q.maxPeaks)
	} else {
		res = s.analyzer.Analyze(in, p.SensorConfig(), q.unit)
	}

	s.countAnalysis(q.unit, in.Kind(), res.HasData)
	return res
}

func (s *Server) countAnalysis(unit vibration.Unit, kind vibration.Kind, hasData bool) {
	s.metrics.analyses.WithLabelValues(unit.String(), kind.String()).Inc()
	if !hasData {
		s.metrics.noData.WithLabelValues(unit.String()).Inc()
	}
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request) (vibration.Payload, bool) {
	if s.source == nil {
		s.fail(w, r, http.StatusServiceUnavailable, errors.New("no sensor backend configured"))
		return vibration.Payload{}, false
	}

	id := mux.Vars(r)["id"]
	p, outcome, err := s.source.Payload(r.Context(), id)
	if err != nil {
		s.metrics.backendFailures.Inc()

		status := http.StatusBadGateway
		if errors.Is(err, apiclient.ErrNotFound) {
			status = http.StatusNotFound
		}

		s.fail(w, r, status, err)
		return vibration.Payload{}, false
	}

	s.metrics.backendFetches.WithLabelValues(string(outcome)).Inc()
	return p, true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	err := s.format.write(w, r, status, data)
	if errors.Is(err, errEncode) && status < http.StatusInternalServerError {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if err != nil {
		s.logger.Warn("write response",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestID(r.Context())

	log := s.logger.Info
	if status >= http.StatusInternalServerError {
		log = s.logger.Warn
	}
	log("request failed",
		zap.String("request_id", id),
		zap.Int("status", status),
		zap.Error(err))

	s.respond(w, r, status, errorBody{Error: err.Error(), RequestID: id})
}
