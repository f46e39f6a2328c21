// Package metrics instruments a host.Host with Prometheus metrics.
package metrics

import (
	"context"
	"strconv"
	"time"

	errs "github.com/mwantia/hostfs/data/errors"
	"github.com/mwantia/hostfs/host"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded besides the error codes of data/errors.
const (
	OutcomeOK   = "ok"
	OutcomeNull = "null"
)

// Metrics holds the collectors shared by every wrapped host.
type Metrics struct {
	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	bytesRead     prometheus.Counter
	streamsActive prometheus.Gauge
}

// New registers the host collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostfs_host_calls_total",
				Help: "Total number of host bridge calls",
			},
			[]string{"method", "outcome"},
		),
		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hostfs_host_call_duration_seconds",
				Help:    "Host bridge call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		bytesRead: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hostfs_stream_bytes_read_total",
				Help: "Total bytes read through host streams",
			},
		),
		streamsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hostfs_streams_active",
				Help: "Number of host streams opened and not yet closed",
			},
		),
	}
}

// Calls returns the counter for method and outcome.
func (m *Metrics) Calls(method, outcome string) prometheus.Counter {
	return m.callsTotal.WithLabelValues(method, outcome)
}

func (m *Metrics) BytesRead() prometheus.Counter {
	return m.bytesRead
}

func (m *Metrics) StreamsActive() prometheus.Gauge {
	return m.streamsActive
}

// Wrap returns a host that records every call of h.
func (m *Metrics) Wrap(h host.Host) *Host {
	return &Host{
		next:    h,
		metrics: m,
	}
}

// Host decorates another host.Host.
type Host struct {
	next    host.Host
	metrics *Metrics
}

var _ host.Host = (*Host)(nil)

// Provider forwards to the wrapped host if it describes itself.
func (h *Host) Provider() host.Provider {
	if describer, ok := h.next.(host.Describer); ok {
		return describer.Provider()
	}
	return host.Provider{ID: "host", DisplayName: "Host"}
}

func (h *Host) observe(method string, start time.Time, result string, err error) {
	h.metrics.callDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = string(errs.CodeOf(err))
	case result == "":
		outcome = OutcomeNull
	}
	h.metrics.callsTotal.WithLabelValues(method, outcome).Inc()
}

func (h *Host) record(method string, call func() (string, error)) (string, error) {
	start := time.Now()
	result, err := call()
	h.observe(method, start, result, err)
	return result, err
}

func (h *Host) OpenPrivateRoot(ctx context.Context) (string, error) {
	return h.record("OpenPrivateRoot", func() (string, error) {
		return h.next.OpenPrivateRoot(ctx)
	})
}

func (h *Host) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	return h.record("CreateFolder", func() (string, error) {
		return h.next.CreateFolder(ctx, parentID, name)
	})
}

func (h *Host) CreateFile(ctx context.Context, parentID, name string) (string, error) {
	return h.record("CreateFile", func() (string, error) {
		return h.next.CreateFile(ctx, parentID, name)
	})
}

func (h *Host) TryGetFolder(ctx context.Context, parentID, name string) (string, error) {
	return h.record("TryGetFolder", func() (string, error) {
		return h.next.TryGetFolder(ctx, parentID, name)
	})
}

func (h *Host) TryGetFile(ctx context.Context, parentID, name string) (string, error) {
	return h.record("TryGetFile", func() (string, error) {
		return h.next.TryGetFile(ctx, parentID, name)
	})
}

func (h *Host) ListItems(ctx context.Context, parentID string) (string, error) {
	return h.record("ListItems", func() (string, error) {
		return h.next.ListItems(ctx, parentID)
	})
}

func (h *Host) ListFiles(ctx context.Context, parentID string) (string, error) {
	return h.record("ListFiles", func() (string, error) {
		return h.next.ListFiles(ctx, parentID)
	})
}

func (h *Host) ListFolders(ctx context.Context, parentID string) (string, error) {
	return h.record("ListFolders", func() (string, error) {
		return h.next.ListFolders(ctx, parentID)
	})
}

func (h *Host) DeleteItem(ctx context.Context, parentID, name string) (string, error) {
	return h.record("DeleteItem", func() (string, error) {
		return h.next.DeleteItem(ctx, parentID, name)
	})
}

func (h *Host) OpenStream(ctx context.Context, streamID, fileID string) (string, error) {
	result, err := h.record("OpenStream", func() (string, error) {
		return h.next.OpenStream(ctx, streamID, fileID)
	})
	if err == nil && result != "" {
		h.metrics.streamsActive.Inc()
	}
	return result, err
}

func (h *Host) ReadStream(ctx context.Context, streamID string, buffer []byte, offset, count int, position int64) (string, error) {
	result, err := h.record("ReadStream", func() (string, error) {
		return h.next.ReadStream(ctx, streamID, buffer, offset, count, position)
	})
	if err == nil {
		if n, parseErr := strconv.Atoi(result); parseErr == nil && n > 0 {
			h.metrics.bytesRead.Add(float64(n))
		}
	}
	return result, err
}

func (h *Host) CloseStream(streamID string) {
	start := time.Now()
	h.next.CloseStream(streamID)

	h.metrics.callDuration.WithLabelValues("CloseStream").Observe(time.Since(start).Seconds())
	h.metrics.callsTotal.WithLabelValues("CloseStream", OutcomeOK).Inc()
	h.metrics.streamsActive.Dec()
}
