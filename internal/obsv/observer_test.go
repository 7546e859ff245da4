package obsv

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNoOpSatisfiesObserver(t *testing.T) {
	var o Observer = NoOp{}
	o.ObserveFsync(time.Millisecond, true)
	o.ObserveUnlink(false)
	o.ObserveAbsorb(3)
	o.ObserveRetry(2, 1)
	o.ObserveCheckpoint(time.Second, 10)
	o.ObservePendingDepth(1, 2)
}

func TestPrometheusObserverCountsFsyncOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewPrometheusObserver(reg, "syncd_test")

	o.ObserveFsync(5*time.Millisecond, true)
	o.ObserveFsync(5*time.Millisecond, false)
	o.ObserveFsync(5*time.Millisecond, true)

	metric := &dto.Metric{}
	if err := o.fsyncTotal.WithLabelValues("success").Write(metric); err != nil {
		t.Fatal(err)
	}
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Errorf("expected 2 successful fsyncs, got %v", got)
	}

	metric = &dto.Metric{}
	if err := o.fsyncTotal.WithLabelValues("failure").Write(metric); err != nil {
		t.Fatal(err)
	}
	if got := metric.GetCounter().GetValue(); got != 1 {
		t.Errorf("expected 1 failed fsync, got %v", got)
	}
}

func TestPrometheusObserverTracksPendingDepthGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := NewPrometheusObserver(reg, "syncd_test2")

	o.ObservePendingDepth(7, 3)

	metric := &dto.Metric{}
	if err := o.pendingFsyncs.Write(metric); err != nil {
		t.Fatal(err)
	}
	if got := metric.GetGauge().GetValue(); got != 7 {
		t.Errorf("expected pending fsync gauge 7, got %v", got)
	}
}
