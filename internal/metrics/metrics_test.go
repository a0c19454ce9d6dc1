package metrics

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"ats-filter-go/internal/keyword"

	"github.com/cloudwego/hertz/pkg/app"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveEvaluation(t *testing.T) {
	m := New()
	m.ObserveEvaluation("text", 60, keyword.VerdictSomewhatRelevant, 15*time.Millisecond)
	m.ObserveEvaluation("text", 90, keyword.VerdictHighlyRelevant, 5*time.Millisecond)
	m.ObserveFailure("document", "EMPTY_EXTRACTION")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.verdictTotal.WithLabelValues("text", "warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verdictTotal.WithLabelValues("text", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failureTotal.WithLabelValues("document", "EMPTY_EXTRACTION")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.evaluationScore))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	engine := route.NewEngine(hertzconfig.NewOptions(nil))
	engine.Use(m.Middleware())
	engine.GET("/ping", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, "pong")
	})
	engine.GET("/metrics", m.Handler())

	resp := ut.PerformRequest(engine, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/ping", "200")))

	resp = ut.PerformRequest(engine, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.True(t, strings.Contains(body, "ats_http_requests_total"), "指标输出应包含请求计数")
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestHandler_ServesEvaluationMetrics(t *testing.T) {
	m := New()
	m.ObserveEvaluation("document", 60, keyword.VerdictSomewhatRelevant, 20*time.Millisecond)
	m.ObserveFailure("text", "MISSING_JOB_DESCRIPTION")

	engine := route.NewEngine(hertzconfig.NewOptions(nil))
	engine.GET("/metrics", m.Handler())

	resp := ut.PerformRequest(engine, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/plain", "应以 Prometheus 文本格式输出")

	body := resp.Body.String()
	assert.Contains(t, body, `kind="document"`)
	assert.Contains(t, body, `reason="MISSING_JOB_DESCRIPTION"`)
}
