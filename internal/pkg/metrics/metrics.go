package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studyplan"

// Metrics: счётчики и гистограммы сервиса. Регистрируются в собственном
// реестре, чтобы тесты могли создавать независимые экземпляры.
type Metrics struct {
	registry *prometheus.Registry

	PlansGenerated   *prometheus.CounterVec
	WeekCacheLookups *prometheus.CounterVec
	TasksToggled     *prometheus.CounterVec
	AchievementsNew  prometheus.Counter
	DigestsSent      *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New создает реестр и регистрирует в нём все метрики (плюс go/process коллекторы)
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PlansGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_generated_total",
			Help:      "Number of generated plans by kind (day, week, replan).",
		}, []string{"kind"}),
		WeekCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "week_plan_cache_lookups_total",
			Help:      "Week plan cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		TasksToggled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_toggled_total",
			Help:      "Task completion toggles by resulting state.",
		}, []string{"state"}),
		AchievementsNew: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Number of newly unlocked achievements.",
		}),
		DigestsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_total",
			Help:      "Weekly digest attempts by result (sent, skipped, failed).",
		}, []string{"result"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// Handler отдаёт метрики реестра в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry нужен тестам для чтения значений
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
