package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reflow/pkg/host"
)

// instrumentedHost counts every operation before forwarding it.
type instrumentedHost struct {
	host.Host

	createElement prometheus.Counter
	createText    prometheus.Counter
	setAttr       prometheus.Counter
	removeAttr    prometheus.Counter
	setStyle      prometheus.Counter
	removeStyle   prometheus.Counter
	setClass      prometheus.Counter
	setText       prometheus.Counter
	insert        prometheus.Counter
	remove        prometheus.Counter
	clear         prometheus.Counter
}

// InstrumentHost wraps h so that every mutation is counted in
// host_ops_total. Reads (Parent, NextSibling) are not counted.
func (m *Metrics) InstrumentHost(h host.Host) host.Host {
	op := func(name string) prometheus.Counter {
		return m.hostOpsTotal.WithLabelValues(name)
	}
	return &instrumentedHost{
		Host:          h,
		createElement: op("create_element"),
		createText:    op("create_text"),
		setAttr:       op("set_attr"),
		removeAttr:    op("remove_attr"),
		setStyle:      op("set_style"),
		removeStyle:   op("remove_style"),
		setClass:      op("set_class"),
		setText:       op("set_text"),
		insert:        op("insert"),
		remove:        op("remove"),
		clear:         op("clear_children"),
	}
}

func (h *instrumentedHost) CreateElement(tag string) host.Node {
	h.createElement.Inc()
	return h.Host.CreateElement(tag)
}

func (h *instrumentedHost) CreateText(text string) host.Node {
	h.createText.Inc()
	return h.Host.CreateText(text)
}

func (h *instrumentedHost) SetAttribute(n host.Node, name, value string) {
	h.setAttr.Inc()
	h.Host.SetAttribute(n, name, value)
}

func (h *instrumentedHost) RemoveAttribute(n host.Node, name string) {
	h.removeAttr.Inc()
	h.Host.RemoveAttribute(n, name)
}

func (h *instrumentedHost) SetStyle(n host.Node, prop, value string) {
	h.setStyle.Inc()
	h.Host.SetStyle(n, prop, value)
}

func (h *instrumentedHost) RemoveStyle(n host.Node, prop string) {
	h.removeStyle.Inc()
	h.Host.RemoveStyle(n, prop)
}

func (h *instrumentedHost) SetClass(n host.Node, class string) {
	h.setClass.Inc()
	h.Host.SetClass(n, class)
}

func (h *instrumentedHost) SetText(n host.Node, text string) {
	h.setText.Inc()
	h.Host.SetText(n, text)
}

func (h *instrumentedHost) InsertBefore(parent, child, ref host.Node) {
	h.insert.Inc()
	h.Host.InsertBefore(parent, child, ref)
}

func (h *instrumentedHost) Remove(n host.Node) {
	h.remove.Inc()
	h.Host.Remove(n)
}

func (h *instrumentedHost) ClearChildren(n host.Node) {
	h.clear.Inc()
	h.Host.ClearChildren(n)
}
