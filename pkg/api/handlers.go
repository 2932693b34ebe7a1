package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/eventstore/pkg/event"
	"github.com/ssargent/eventstore/pkg/records"
)

// maxBodySize bounds request bodies well above the largest valid payload
const maxBodySize = 64 << 10

// Server holds the API server state
type Server struct {
	events  EventService
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(events EventService, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	return &Server{
		events:  events,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p, ok := s.decodePayload(w, r)
	if !ok {
		s.metrics.RecordDBOperation("create", false, time.Since(start))
		return
	}

	e, err := s.events.Create(p)
	s.metrics.RecordDBOperation("create", err == nil, time.Since(start))
	if err != nil {
		s.sendServiceError(w, r, err)
		return
	}
	sendCreated(w, e)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		s.metrics.RecordDBOperation("read", false, time.Since(start))
		return
	}

	e, err := s.events.Read(id)
	s.metrics.RecordDBOperation("read", err == nil, time.Since(start))
	if err != nil {
		s.sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, e)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		s.metrics.RecordDBOperation("update", false, time.Since(start))
		return
	}
	p, ok := s.decodePayload(w, r)
	if !ok {
		s.metrics.RecordDBOperation("update", false, time.Since(start))
		return
	}

	e, err := s.events.Update(id, p)
	s.metrics.RecordDBOperation("update", err == nil, time.Since(start))
	if err != nil {
		s.sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, e)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(w, r)
	if !ok {
		s.metrics.RecordDBOperation("delete", false, time.Since(start))
		return
	}

	e, err := s.events.Delete(id)
	s.metrics.RecordDBOperation("delete", err == nil, time.Since(start))
	if err != nil {
		s.sendServiceError(w, r, err)
		return
	}
	sendSuccess(w, e)
}

func parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		sendError(w, "Invalid event id: "+raw, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) decodePayload(w http.ResponseWriter, r *http.Request) (event.Payload, bool) {
	var p event.Payload

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return p, false
	}
	if err := json.Unmarshal(body, &p); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return p, false
	}
	return p, true
}

// sendServiceError maps service errors onto HTTP status codes
func (s *Server) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, event.ErrNotFound):
		sendError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, event.ErrInvalidPayload):
		sendError(w, err.Error(), http.StatusBadRequest)
	default:
		if errors.Is(err, records.ErrCorruptRecord) {
			s.metrics.RecordCorruptRecord()
		}
		s.logger.Error("event operation failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(requestIDHeader),
			"error", err)
		sendError(w, "Internal server error", http.StatusInternalServerError)
	}
}
