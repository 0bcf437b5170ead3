package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestImportMetrics(t *testing.T) {
	t.Parallel()
	m := NewMetrics()

	m.AddImportRows("reagents", "processed", 10)
	m.AddImportRows("reagents", "processed", 5)
	m.AddImportRows("reagents", "skipped", 0)
	m.ObserveChunk("reagents", "committed", 20*time.Millisecond)
	m.SetRowsPerSecond("reagents", 750)

	if got := testutil.ToFloat64(m.importRows.WithLabelValues("reagents", "processed")); got != 15 {
		t.Fatalf("processed rows: got=%v want=15", got)
	}
	if got := testutil.ToFloat64(m.importChunks.WithLabelValues("reagents", "committed")); got != 1 {
		t.Fatalf("chunks: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(m.rowsPerSecond.WithLabelValues("reagents")); got != 750 {
		t.Fatalf("rows/sec: got=%v want=750", got)
	}
}

func TestMetricsHandlerExposesImportSeries(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.AddImportRows("batches", "processed", 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `lims_import_rows_total{kind="batches",outcome="processed"} 3`) {
		t.Fatalf("series missing from exposition")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	t.Parallel()
	var m *Metrics
	m.AddImportRows("equipment", "processed", 1)
	m.ObserveChunk("equipment", "failed", time.Second)
	m.ObserveAPI("GET", "/healthcheck", "200", time.Millisecond)
}
