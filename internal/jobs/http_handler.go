package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/rpattn/jobql/internal/domain"
	"github.com/rpattn/jobql/internal/export"
	"github.com/rpattn/jobql/internal/filter"
	"github.com/rpattn/jobql/internal/repository"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service  *Service
	exporter *export.Service
	health   Pinger
	logger   *zap.Logger
}

// NewHTTPHandler serves the job listing API. exporter and health may be nil,
// which disables the export and health routes.
func NewHTTPHandler(service *Service, exporter *export.Service, health Pinger, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, exporter: exporter, health: health, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
		return
	}
	switch path {
	case "/api/jobs":
		h.handleList(w, r)
	case "/api/jobs/explain":
		h.handleExplain(w, r)
	case "/api/jobs/export":
		h.handleExport(w, r)
	case "/healthz":
		h.handleHealth(w, r)
	default:
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// handleList serves GET /api/jobs. Results are paged: without a limit the
// configured default applies, and X-Total-Count carries the full match count so
// clients can tell when a page is truncated.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := intParam(query.Get("limit"))
	if err != nil {
		h.writeError(w, r, errors.Wrap(err, "limit"))
		return
	}
	offset, err := intParam(query.Get("offset"))
	if err != nil {
		h.writeError(w, r, errors.Wrap(err, "offset"))
		return
	}

	result, err := h.service.List(r.Context(), ListRequest{
		Filter: query.Get("filter"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	jobs := result.Jobs
	if jobs == nil {
		jobs = []domain.Job{}
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	explanation, err := h.service.Explain(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explanation)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	query := r.URL.Query()
	format, err := export.ParseFormat(query.Get("format"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	raw := query.Get("filter")

	// Headers are only sent with the first write, so a failure on the first page
	// can still be answered with a JSON error.
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.exporter.FileName(raw, format)+`"`)

	result, err := h.exporter.Write(r.Context(), w, format, raw)
	if err != nil {
		if result.Bytes == 0 {
			w.Header().Del("Content-Disposition")
			h.writeError(w, r, err)
			return
		}
		h.logger.Error("export aborted mid-stream",
			zap.String("filter", raw),
			zap.Int("rows", result.Rows),
			zap.Error(err),
		)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, status, errorBody{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// StatusCode maps service errors to HTTP status codes.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case filter.IsFilterError(err),
		errors.Is(err, repository.ErrInvalidFilter),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func intParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Mark(errors.Newf("%q is not an integer", raw), ErrInvalidRequest)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
