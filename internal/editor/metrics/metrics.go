package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modulmate/internal/editor/export"
	"modulmate/internal/editor/models"
)

// ============================================================
// Prometheus Metrics
// ============================================================

// Collector считает команды стора, глубину истории и прогоны экспорта.
// Подключается к store.WithObserver и Sequencer.SetObserver.
type Collector struct {
	registry *prometheus.Registry

	commands      *prometheus.CounterVec
	historyDepth  prometheus.Gauge
	historyRedo   prometheus.Gauge
	captures      *prometheus.CounterVec
	exports       *prometheus.CounterVec
	exportSeconds prometheus.Histogram
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modulmate",
			Name:      "commands_total",
			Help:      "Applied editor commands by name.",
		}, []string{"command"}),
		historyDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "modulmate",
			Name:      "history_depth",
			Help:      "Undo snapshots currently held.",
		}),
		historyRedo: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "modulmate",
			Name:      "history_redo_depth",
			Help:      "Redo snapshots currently held.",
		}),
		captures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modulmate",
			Subsystem: "export",
			Name:      "captures_total",
			Help:      "Stored export captures by view.",
		}, []string{"step"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modulmate",
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "Finished export runs by status.",
		}, []string{"status"}),
		exportSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "modulmate",
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "Export run duration.",
			Buckets:   []float64{0.5, 1, 2, 3, 4, 6, 10, 30},
		}),
	}
	c.registry.MustRegister(
		c.commands, c.historyDepth, c.historyRedo,
		c.captures, c.exports, c.exportSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) CommandApplied(name string) {
	c.commands.WithLabelValues(name).Inc()
}

func (c *Collector) HistoryChanged(depth, pending int) {
	c.historyDepth.Set(float64(depth))
	c.historyRedo.Set(float64(pending))
}

func (c *Collector) StepCaptured(step models.ExportStep) {
	c.captures.WithLabelValues(string(step)).Inc()
}

func (c *Collector) ExportFinished(status export.Status, elapsed time.Duration) {
	c.exports.WithLabelValues(string(status)).Inc()
	c.exportSeconds.Observe(elapsed.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler отдает метрики в формате Prometheus.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
