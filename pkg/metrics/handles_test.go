package metrics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHistogram_Time(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	h, err := p.NewHistogram(HistogramOpts{
		Name:    MustName("op_duration_ms"),
		Help:    "Operation duration in milliseconds",
		Buckets: []float64{1, 10, 100, 1000},
	})
	if err != nil {
		t.Fatalf("Failed to create histogram: %v", err)
	}

	const sleep = 20 * time.Millisecond
	err = h.Time(ctx, time.Millisecond, func(context.Context) error {
		time.Sleep(sleep)
		return nil
	})
	if err != nil {
		t.Fatalf("Timed action returned error: %v", err)
	}

	if got := h.Count(); got != 1 {
		t.Fatalf("Expected 1 recorded sample, got %d", got)
	}
	// Recorded in the requested unit: at least 20 when timing 20ms in ms.
	if got := h.Sum(); got < 20 {
		t.Errorf("Expected recorded duration >= 20ms, got %f", got)
	}
}

func TestHistogram_TimeUnitConversion(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	h, err := p.NewHistogram(HistogramOpts{
		Name: MustName("op_duration_seconds"),
		Help: "Operation duration in seconds",
	})
	if err != nil {
		t.Fatalf("Failed to create histogram: %v", err)
	}

	if err := h.Time(ctx, time.Second, func(context.Context) error {
		time.Sleep(30 * time.Millisecond)
		return nil
	}); err != nil {
		t.Fatalf("Timed action returned error: %v", err)
	}

	sum := h.Sum()
	if sum < 0.03 {
		t.Errorf("Expected recorded duration >= 0.03s, got %f", sum)
	}
	if sum > 10 {
		t.Errorf("Recorded duration %f looks unconverted, expected seconds", sum)
	}
}

func TestHistogram_TimePassesThroughError(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	h, err := p.NewHistogram(HistogramOpts{
		Name: MustName("failing_op_ms"),
		Help: "Duration of a failing operation",
	})
	if err != nil {
		t.Fatalf("Failed to create histogram: %v", err)
	}

	wantErr := errors.New("boom")
	if got := h.Time(ctx, time.Millisecond, func(context.Context) error {
		return wantErr
	}); !errors.Is(got, wantErr) {
		t.Errorf("Time returned %v, want the action's error unchanged", got)
	}
	if got := h.Count(); got != 1 {
		t.Errorf("Expected sample recorded on error, count = %d", got)
	}
}

func TestHistogram_TimeRecordsOnPanic(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	h, err := p.NewHistogram(HistogramOpts{
		Name: MustName("panicking_op_ms"),
		Help: "Duration of a panicking operation",
	})
	if err != nil {
		t.Fatalf("Failed to create histogram: %v", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Expected the action's panic to propagate")
			}
		}()
		_ = h.Time(ctx, time.Millisecond, func(context.Context) error {
			panic("boom")
		})
	}()

	if got := h.Count(); got != 1 {
		t.Errorf("Expected sample recorded despite panic, count = %d", got)
	}
}

func TestSummary_TimeRecordsOnCancellation(t *testing.T) {
	p := newTestProvider(t)

	s, err := p.NewSummary(SummaryOpts{
		Name: MustName("cancelled_op_ms"),
		Help: "Duration of a cancelled operation",
	})
	if err != nil {
		t.Fatalf("Failed to create summary: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	got := s.Time(ctx, time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(got, context.Canceled) {
		t.Errorf("Time returned %v, want context.Canceled", got)
	}

	// The partial duration up to cancellation is still recorded.
	if count := s.Count(); count != 1 {
		t.Fatalf("Expected 1 recorded sample after cancellation, got %d", count)
	}
	if sum := s.Sum(); sum < 10 {
		t.Errorf("Expected recorded duration >= 10ms, got %f", sum)
	}
}

func TestGauge_SetToCurrentTime(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	g, err := p.NewGauge(GaugeOpts{Name: MustName("last_run_timestamp"), Help: "Last run"})
	if err != nil {
		t.Fatalf("Failed to create gauge: %v", err)
	}

	before := float64(time.Now().Unix())
	g.SetToCurrentTime(ctx)
	if got := g.Value(); got < before {
		t.Errorf("SetToCurrentTime value %f is before the call (%f)", got, before)
	}
}

func TestCounter_ConcurrentUse(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	counter, err := p.NewCounter(CounterOpts{Name: MustName("concurrent_total"), Help: "Concurrent increments"})
	if err != nil {
		t.Fatalf("Failed to create counter: %v", err)
	}

	const goroutines = 8
	const perGoroutine = 1000
	done := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < perGoroutine; j++ {
				counter.Inc(ctx)
			}
		}()
	}
	for i := 0; i < goroutines; i++ {
		<-done
	}

	if got := counter.Value(); got != goroutines*perGoroutine {
		t.Errorf("Expected %d increments, got %f", goroutines*perGoroutine, got)
	}
}
