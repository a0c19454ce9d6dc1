package router

import (
	"context"
	"time"

	"ats-filter-go/internal/api/handler"
	"ats-filter-go/internal/constants"
	"ats-filter-go/internal/metrics"
	"ats-filter-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
)

// Options 路由可选项
type Options struct {
	// APIKeys 非空时 /api/v1/ats 下的接口需要携带 X-API-Key
	APIKeys []string

	// Metrics 非空时注册请求指标中间件和指标输出接口
	Metrics     *metrics.Metrics
	MetricsPath string
}

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, atsHandler *handler.ATSHandler, opts Options) {
	h.Use(accessLog())
	if opts.Metrics != nil {
		h.Use(opts.Metrics.Middleware())
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		h.GET(path, opts.Metrics.Handler())
	}

	api := h.Group("/api/v1")

	// 添加健康检查
	api.GET("/health", atsHandler.Health)

	ats := api.Group("/ats")
	if len(opts.APIKeys) > 0 {
		ats.Use(apiKeyAuth(opts.APIKeys))
	}
	ats.POST("/evaluate", atsHandler.Evaluate)
	ats.POST("/evaluate/text", atsHandler.EvaluateText)
	ats.POST("/evaluate/object", atsHandler.EvaluateObject)
	ats.POST("/normalize", atsHandler.Normalize)
}

func accessLog() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		hlog.CtxInfof(c, "%s %s -> %d (%s)", string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode(), time.Since(start))
	}
}

func apiKeyAuth(keys []string) app.HandlerFunc {
	valid := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			valid[k] = struct{}{}
		}
	}
	return keyauth.New(
		keyauth.WithKeyLookUp("header:"+constants.APIKeyHeader, ""),
		keyauth.WithValidator(func(_ context.Context, _ *app.RequestContext, key string) (bool, error) {
			_, ok := valid[key]
			return ok, nil
		}),
		keyauth.WithErrorHandler(func(_ context.Context, ctx *app.RequestContext, err error) {
			ctx.AbortWithStatusJSON(consts.StatusUnauthorized, types.ErrorResponse{
				Code:  "UNAUTHORIZED",
				Error: "缺少或无效的 API Key",
			})
		}),
	)
}
