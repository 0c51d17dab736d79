package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/jobql/internal/filter"
)

func TestCompileResult(t *testing.T) {
	assert.Equal(t, "ok", CompileResult(nil))
	assert.Equal(t, "unbalanced_parentheses", CompileResult(&filter.UnbalancedParenthesesError{Filter: "(a=1"}))
	assert.Equal(t, "unknown_attribute", CompileResult(&filter.ParseError{
		Filter: "attribute:x=1",
		Err:    &filter.UnknownAttributeError{Name: "x"},
	}))
	assert.Equal(t, "unknown_relation", CompileResult(&filter.UnknownRelationError{Relation: "perks"}))
	assert.Equal(t, "error", CompileResult(errors.New("boom")))
}

func TestObserveCompile(t *testing.T) {
	before := testutil.ToFloat64(FilterCompileTotal.WithLabelValues("ok"))
	ObserveCompile(time.Now(), nil)
	assert.Equal(t, before+1, testutil.ToFloat64(FilterCompileTotal.WithLabelValues("ok")))
}

func TestMiddleware(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "api_jobs_explain", "418"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/explain?filter=a%3D1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "api_jobs_explain", "418")))
}

func TestPathLabel(t *testing.T) {
	assert.Equal(t, "healthz", pathLabel("/healthz"))
	assert.Equal(t, "api_jobs", pathLabel("/api/jobs"))
	assert.Equal(t, "api_jobs", pathLabel("/api/jobs/"))
	assert.Equal(t, "api_jobs_export", pathLabel("/api/jobs/export"))
	assert.Equal(t, "other", pathLabel("/"))
	assert.Equal(t, "other", pathLabel("/api/jobs/export/extra"))
	assert.Equal(t, "other", pathLabel("/wp-admin/setup.php"))
}

func TestMiddlewareBoundsLabelCardinality(t *testing.T) {
	handler := Middleware(http.NotFoundHandler())
	before := testutil.CollectAndCount(RequestTotal)

	for i := 0; i < 200; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/scan%d/x", i), nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}
	req := httptest.NewRequest("PROPFIND", "/scan/y", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// At most one series for GET other 404 and one for other other 404.
	assert.LessOrEqual(t, testutil.CollectAndCount(RequestTotal), before+2)
	assert.Equal(t, "other", methodLabel("PROPFIND"))
}
