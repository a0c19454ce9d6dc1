package metrics

import (
	"context"
	"strconv"
	"time"

	"ats-filter-go/internal/keyword"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ats"

// Metrics HTTP 请求与评估结果指标
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.SummaryVec
	requestTotal    *prometheus.CounterVec

	evaluationScore    *prometheus.HistogramVec
	evaluationDuration *prometheus.HistogramVec
	verdictTotal       *prometheus.CounterVec
	failureTotal       *prometheus.CounterVec
}

// New 在独立的 registry 上注册全部指标
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requestDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		evaluationScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_score",
				Help:      "Keyword match score of completed evaluations",
				Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
			[]string{"kind"},
		),
		evaluationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Time spent extracting, resolving and scoring one evaluation",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		verdictTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluation_verdicts_total",
				Help:      "Completed evaluations by verdict level",
			},
			[]string{"kind", "level"},
		),
		failureTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluation_failures_total",
				Help:      "Evaluations that ended with an error, by error code",
			},
			[]string{"kind", "reason"},
		),
	}
}

// Registry 暴露底层 registry，便于测试读取
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware 记录每个请求的耗时和次数
func (m *Metrics) Middleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()

		c.Next(ctx)

		duration := time.Since(start).Seconds()
		method := string(c.Method())
		path := c.FullPath()
		if path == "" {
			// 未匹配路由时不使用原始路径，避免标签基数膨胀
			path = "unmatched"
		}
		statusCode := strconv.Itoa(c.Response.StatusCode())

		m.requestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		m.requestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// Handler 以 Prometheus 文本格式输出指标
func (m *Metrics) Handler() app.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(ctx context.Context, c *app.RequestContext) {
		req, err := adaptor.GetCompatRequest(&c.Request)
		if err != nil {
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}
		h.ServeHTTP(adaptor.GetCompatResponseWriter(&c.Response), req.WithContext(ctx))
	}
}

// ObserveEvaluation 记录一次成功的评估
func (m *Metrics) ObserveEvaluation(kind string, score float64, verdict keyword.Verdict, duration time.Duration) {
	m.evaluationScore.WithLabelValues(kind).Observe(score)
	m.evaluationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.verdictTotal.WithLabelValues(kind, string(verdict.Level())).Inc()
}

// ObserveFailure 记录一次失败的评估
func (m *Metrics) ObserveFailure(kind string, reason string) {
	m.failureTotal.WithLabelValues(kind, reason).Inc()
}
