package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func TestProvider_NamespaceSubsystemPrefix(t *testing.T) {
	p, err := NewProvider(Options{
		Namespace: MustName("myapp"),
		Subsystem: MustName("api"),
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	counter, err := p.NewCounter(CounterOpts{Name: MustName("requests_total"), Help: "Total requests"})
	if err != nil {
		t.Fatalf("Failed to create counter: %v", err)
	}
	counter.Inc(context.Background())

	families, err := p.Gather()
	if err != nil {
		t.Fatalf("Failed to gather: %v", err)
	}
	found := false
	for _, fam := range families {
		if fam.Name == "myapp_api_requests_total" {
			found = true
			if fam.Type != CounterType {
				t.Errorf("Expected counter type, got %v", fam.Type)
			}
		}
	}
	if !found {
		t.Error("Expected fully qualified name myapp_api_requests_total")
	}
}

func TestProvider_InvalidConstLabelKey(t *testing.T) {
	_, err := NewProvider(Options{
		ConstLabels: map[string]string{"bad-key": "value"},
	})
	if err == nil {
		t.Fatal("Expected validation error for malformed const label key")
	}
	if !IsValidationError(err) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestProvider_SharedRegistryCollision(t *testing.T) {
	registry := prometheus.NewRegistry()

	first, err := NewProvider(Options{Registry: registry})
	if err != nil {
		t.Fatalf("Failed to create first provider: %v", err)
	}
	second, err := NewProvider(Options{Registry: registry})
	if err != nil {
		t.Fatalf("Failed to create second provider: %v", err)
	}

	opts := CounterOpts{Name: MustName("shared_total"), Help: "Shared"}
	if _, err := first.NewCounter(opts); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	if _, err := second.NewCounter(opts); err == nil {
		t.Error("Expected collision across providers sharing one registry")
	}

	// Isolated registries do not collide.
	isolated, err := NewProvider(Options{})
	if err != nil {
		t.Fatalf("Failed to create isolated provider: %v", err)
	}
	if _, err := isolated.NewCounter(opts); err != nil {
		t.Errorf("Isolated registry rejected an unrelated name: %v", err)
	}
}

func TestProvider_Handler(t *testing.T) {
	p, err := NewProvider(Options{
		Namespace: MustName("test"),
		Logger:    zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	counter, err := p.NewCounter(CounterOpts{Name: MustName("requests_total"), Help: "Total requests"})
	if err != nil {
		t.Fatalf("Failed to create counter: %v", err)
	}
	counter.Inc(context.Background())

	gauge, err := p.NewGauge(GaugeOpts{Name: MustName("active_connections"), Help: "Active connections"})
	if err != nil {
		t.Fatalf("Failed to create gauge: %v", err)
	}
	gauge.Set(context.Background(), 42.0)

	handler := p.Handler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "test_requests_total") {
		t.Error("Expected counter metric in response")
	}
	if !strings.Contains(body, "test_active_connections") {
		t.Error("Expected gauge metric in response")
	}
}

func TestProvider_TextSnapshot(t *testing.T) {
	p := newTestProvider(t)

	counter, err := p.NewCounter(CounterOpts{Name: MustName("snapshot_total"), Help: "Snapshot"})
	if err != nil {
		t.Fatalf("Failed to create counter: %v", err)
	}
	counter.Add(context.Background(), 3)

	text, err := p.TextSnapshot()
	if err != nil {
		t.Fatalf("Failed to render snapshot: %v", err)
	}
	if !strings.Contains(text, "snapshot_total 3") {
		t.Errorf("Expected snapshot to contain counter sample, got:\n%s", text)
	}
	if !strings.Contains(text, "# HELP snapshot_total Snapshot") {
		t.Errorf("Expected snapshot to contain help text, got:\n%s", text)
	}
}

func TestProvider_GatherLabelledFamily(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	family, err := NewHistogramFamily(p,
		HistogramOpts{
			Name:    MustName("gather_duration_seconds"),
			Help:    "Gathered histogram",
			Buckets: []float64{0.1, 1, 10},
		},
		requestLabels,
		MustName("method"), MustName("path"),
	)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	family.MustLabel(request{method: "GET", path: "/"}).Observe(ctx, 0.5)

	families, err := p.Gather()
	if err != nil {
		t.Fatalf("Failed to gather: %v", err)
	}

	for _, fam := range families {
		if fam.Name != "gather_duration_seconds" {
			continue
		}
		if fam.Type != HistogramType {
			t.Errorf("Expected histogram type, got %v", fam.Type)
		}
		if len(fam.Metrics) != 1 {
			t.Fatalf("Expected 1 child, got %d", len(fam.Metrics))
		}
		m := fam.Metrics[0]
		if m.Count != 1 || m.Sum != 0.5 {
			t.Errorf("Expected count 1 sum 0.5, got %d/%f", m.Count, m.Sum)
		}
		if len(m.Labels) != 2 {
			t.Errorf("Expected 2 label pairs, got %d", len(m.Labels))
		}
		if len(m.Buckets) == 0 {
			t.Error("Expected gathered buckets")
		}
		return
	}
	t.Error("Expected to find gather_duration_seconds")
}

func TestProvider_MustConstructorsPanicOnCollision(t *testing.T) {
	p := newTestProvider(t)

	opts := GaugeOpts{Name: MustName("must_gauge"), Help: "Must"}
	p.MustNewGauge(opts)

	defer func() {
		if recover() == nil {
			t.Error("MustNewGauge did not panic on name collision")
		}
	}()
	p.MustNewGauge(opts)
}
