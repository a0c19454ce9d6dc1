package router

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"ats-filter-go/internal/api/handler"
	"ats-filter-go/internal/constants"
	"ats-filter-go/internal/keyword"
	"ats-filter-go/internal/metrics"
	"ats-filter-go/internal/parser"
	"ats-filter-go/internal/processor"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(opts Options) *server.Hertz {
	evaluator := processor.NewATSEvaluator(parser.NewMultiExtractor(), keyword.NewMatcher(nil))
	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	RegisterRoutes(h, handler.NewATSHandler(evaluator, 0), opts)
	return h
}

func normalizeRequest(h *server.Hertz, headers ...ut.Header) *ut.ResponseRecorder {
	body := `{"text":"Go and Docker"}`
	headers = append(headers, ut.Header{Key: "Content-Type", Value: "application/json"})
	return ut.PerformRequest(h.Engine, http.MethodPost, "/api/v1/ats/normalize",
		&ut.Body{Body: bytes.NewBufferString(body), Len: len(body)}, headers...)
}

func TestRegisterRoutes_APIKey(t *testing.T) {
	h := newTestServer(Options{APIKeys: []string{"secret-key"}})

	resp := normalizeRequest(h)
	assert.Equal(t, http.StatusUnauthorized, resp.Code, "缺少 API Key 时应拒绝")

	resp = normalizeRequest(h, ut.Header{Key: constants.APIKeyHeader, Value: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = normalizeRequest(h, ut.Header{Key: constants.APIKeyHeader, Value: "secret-key"})
	assert.Equal(t, http.StatusOK, resp.Code)

	// 健康检查不需要鉴权
	resp = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRegisterRoutes_NoAPIKeys(t *testing.T) {
	h := newTestServer(Options{})
	assert.Equal(t, http.StatusOK, normalizeRequest(h).Code)
}

func TestRegisterRoutes_Metrics(t *testing.T) {
	h := newTestServer(Options{Metrics: metrics.New(), MetricsPath: "/metrics"})

	require.Equal(t, http.StatusOK, normalizeRequest(h).Code)
	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), `path="/api/v1/ats/normalize"`))
}

func TestAccessLog(t *testing.T) {
	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	h.Use(accessLog())
	called := false
	h.GET("/x", func(_ context.Context, c *app.RequestContext) {
		called = true
	})
	ut.PerformRequest(h.Engine, http.MethodGet, "/x", nil)
	assert.True(t, called)
}
