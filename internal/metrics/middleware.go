package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Middleware records request count and duration for the given handler.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		method, path := methodLabel(r.Method), pathLabel(r.URL.Path)
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		RequestTotal.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// otherLabel collects every path and method outside the served set.
const otherLabel = "other"

var routeLabels = map[string]string{
	"/api/jobs":         "api_jobs",
	"/api/jobs/explain": "api_jobs_explain",
	"/api/jobs/export":  "api_jobs_export",
	"/healthz":          "healthz",
	"/metrics":          "metrics",
}

// pathLabel maps a request path onto the fixed route set.
func pathLabel(p string) string {
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	if label, ok := routeLabels[p]; ok {
		return label
	}
	return otherLabel
}

func methodLabel(m string) string {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return m
	}
	return otherLabel
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
