package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/reflow/pkg/component"
	"github.com/vango-dev/reflow/pkg/host/memhost"
	"github.com/vango-dev/reflow/pkg/reactive"
	"github.com/vango-dev/reflow/pkg/vdom"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordFlush(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()))

	m.RecordFlush(reactive.FlushStats{Seq: 1, Batch: 3, Duration: time.Millisecond})
	m.RecordFlush(reactive.FlushStats{Seq: 2, Batch: 1, Duration: time.Millisecond})

	if got := metricCounterValue(t, m.flushesTotal); got != 2 {
		t.Errorf("flushes_total = %v, want 2", got)
	}
	if got := metricHistogramCount(t, m.flushBatch); got != 2 {
		t.Errorf("flush_batch_size count = %v, want 2", got)
	}
	if got := metricHistogramCount(t, m.flushDuration); got != 2 {
		t.Errorf("flush_duration_seconds count = %v, want 2", got)
	}
}

func TestInstrumentHostCountsOps(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()))
	d := memhost.New()
	h := m.InstrumentHost(d)

	li := h.CreateElement("li")
	h.SetAttribute(li, "id", "a")
	h.SetClass(li, "x")
	h.InsertBefore(d.Body(), li, nil)
	h.Remove(li)

	tests := []struct {
		op   string
		want float64
	}{
		{"create_element", 1},
		{"set_attr", 1},
		{"set_class", 1},
		{"insert", 1},
		{"remove", 1},
		{"set_text", 0},
	}
	for _, tt := range tests {
		if got := metricCounterValue(t, m.hostOpsTotal.WithLabelValues(tt.op)); got != tt.want {
			t.Errorf("host_ops_total{op=%q} = %v, want %v", tt.op, got, tt.want)
		}
	}
	if len(d.Ops()) != 5 {
		t.Errorf("wrapped host saw %d ops, want 5", len(d.Ops()))
	}
}

func TestComponentWiring(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))
	q := reactive.NewManualQueue()
	rt := reactive.New(reactive.WithDeferrer(q))
	m.ObserveScheduler(rt.Scheduler())

	d := memhost.New()
	el := d.Element(d.Body(), "div")
	inst := component.New(rt, m.InstrumentHost(d), component.RenderFunc(func(c *component.Instance) *vdom.VNode {
		return vdom.Ul(vdom.Range(c.Data().Array("items").Items(), func(it any, _ int) *vdom.VNode {
			return vdom.Li(vdom.Key(it), vdom.TextOf(it))
		}))
	}),
		component.WithName("list"),
		component.WithData(map[string]any{"items": []any{"a", "b"}}),
		m.AfterPatch(),
	)
	if err := inst.Mount(el); err != nil {
		t.Fatal(err)
	}

	inst.Data().Array("items").Push("c")
	q.Drain()

	if got := metricCounterValue(t, m.rendersTotal.WithLabelValues("list")); got != 2 {
		t.Errorf("renders_total = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.flushesTotal); got != 1 {
		t.Errorf("flushes_total = %v, want 1", got)
	}
	// ul, 2 li and their texts on mount, then one li and its text.
	if got := metricCounterValue(t, m.nodesTotal.WithLabelValues("created")); got != 7 {
		t.Errorf("nodes_total{kind=created} = %v, want 7", got)
	}
	if got := metricCounterValue(t, m.hostOpsTotal.WithLabelValues("create_element")); got != 4 {
		t.Errorf("host_ops_total{op=create_element} = %v, want 4", got)
	}
}

func TestRecordPatchError(t *testing.T) {
	m := New(WithRegistry(prometheus.NewRegistry()))
	rt := reactive.New()
	d := memhost.New()

	inst := component.New(rt, d, component.RenderFunc(func(*component.Instance) *vdom.VNode {
		return nil
	}), component.WithName("broken"))
	if err := inst.Mount(d.Element(d.Body(), "div")); err == nil {
		t.Fatal("expected mount error")
	}
	m.RecordPatch(inst)

	if got := metricCounterValue(t, m.patchErrors.WithLabelValues("broken")); got != 1 {
		t.Errorf("patch_errors_total = %v, want 1", got)
	}
}
