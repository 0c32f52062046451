package obs

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	actionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sellbot_actions_total",
			Help: "Workflow actions by action name and outcome code.",
		},
		[]string{"action", "outcome"},
	)

	saveFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sellbot_storage_save_failures_total",
		Help: "Document saves that failed; the in-memory state was kept.",
	})

	notifyFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sellbot_notify_failures_total",
		Help: "Outbound notifications that could not be delivered.",
	})

	throttledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sellbot_updates_throttled_total",
		Help: "Inbound updates dropped by the per-user rate limiter.",
	})

	pendingRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sellbot_pending_requests",
		Help: "Purchase requests awaiting an admin decision.",
	})
)

// Init registers the metrics in the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(actionsTotal, saveFailuresTotal, notifyFailuresTotal, throttledTotal, pendingRequests)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAction counts one workflow action. outcome is "ok" or an error code.
func RecordAction(action, outcome string) {
	actionsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordSaveFailure counts a failed document save.
func RecordSaveFailure() { saveFailuresTotal.Inc() }

// RecordNotifyFailure counts a failed outbound notification.
func RecordNotifyFailure() { notifyFailuresTotal.Inc() }

// RecordThrottled counts an inbound update dropped by rate limiting.
func RecordThrottled() { throttledTotal.Inc() }

// SetPending publishes the current pending queue length.
func SetPending(n int) { pendingRequests.Set(float64(n)) }
