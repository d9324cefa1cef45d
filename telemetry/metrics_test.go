package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()
	m.Record(MapStats{Side: 9, Roughness: 0.25})
	m.Record(MapStats{Side: 5, Roughness: 0.5})

	if got := testutil.ToFloat64(m.Builds); got != 2 {
		t.Errorf("builds = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Cells); got != 81+25 {
		t.Errorf("cells = %v, want %d", got, 81+25)
	}
	if got := testutil.ToFloat64(m.Roughness); got != 0.5 {
		t.Errorf("roughness = %v, want 0.5", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.Record(MapStats{Side: 9})
	if srv := m.Serve(":0"); srv != nil {
		t.Error("nil metrics started a server")
	}
	if srv := NewMetrics().Serve(""); srv != nil {
		t.Error("empty addr started a server")
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.Record(MapStats{Side: 3, Roughness: 0.1})
	m.BuildDuration.Observe(0.002)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"heightmap_builds_total 1",
		"heightmap_cells_total 9",
		"heightmap_build_duration_seconds_count 1",
		"heightmap_last_roughness 0.1",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %q", name)
		}
	}
}
