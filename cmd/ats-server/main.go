package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ats-filter-go/internal/api/handler"
	"ats-filter-go/internal/api/router"
	"ats-filter-go/internal/config"
	"ats-filter-go/internal/constants"
	"ats-filter-go/internal/logger"
	"ats-filter-go/internal/metrics"
	"ats-filter-go/internal/processor"
	"ats-filter-go/internal/storage"
	"ats-filter-go/internal/tracing"
	"ats-filter-go/internal/worker"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzserverconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

var (
	version = "1.0.0" //nolint:gochecknoglobals
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logCloser, err := logger.Init(logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
		File:         cfg.Logger.File,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	logger.BridgeHertz(cfg.Logger.Level)
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing, version)
	if err != nil {
		glog.Fatalf("初始化链路追踪失败: %v", err)
	}

	storageManager := storage.NewStorage(ctx, cfg)
	defer storageManager.Close()

	matcher, stopWordSet, err := processor.BuildMatcher(ctx, cfg.Matcher, storageManager)
	if err != nil {
		glog.Fatalf("初始化关键词匹配器失败: %v", err)
	}
	glog.Infof("停用词加载完成，来源: %s, 语言: %s, 数量: %d", cfg.Matcher.StopWords.Source, stopWordSet.Language(), stopWordSet.Len())

	loggers := componentLoggers(cfg.Logger.Level)
	extractor, err := processor.BuildDocumentExtractor(ctx, cfg.Parser, loggers)
	if err != nil {
		glog.Fatalf("初始化文档提取器失败: %v", err)
	}
	glog.Infof("文档提取器初始化成功，PDF解析器: %s", cfg.Parser.Type)

	jdProcessor := processor.BuildJDProcessor(cfg.JDFetcher, storageManager, loggers)

	evaluatorOptions := []processor.EvaluatorOption{
		processor.WithJDProcessor(jdProcessor),
		processor.WithMaxDocumentBytes(int64(cfg.Parser.MaxDocumentMB) << 20),
		processor.WithEvaluatorLogger(&logger.Logger),
	}
	if storageManager.MinIO != nil {
		evaluatorOptions = append(evaluatorOptions, processor.WithObjectFetcher(storageManager.MinIO))
	}

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
		evaluatorOptions = append(evaluatorOptions, processor.WithRecorder(appMetrics))
	}

	evaluator := processor.NewATSEvaluator(extractor, matcher, evaluatorOptions...)
	glog.Info("ATS评估器初始化成功")

	var consumerDone <-chan struct{}
	if storageManager.RabbitMQ != nil {
		consumer := worker.NewEvaluationConsumer(evaluator, storageManager.RabbitMQ, cfg.RabbitMQ)
		consumerDone, err = consumer.Start(ctx, storageManager.RabbitMQ)
		if err != nil {
			glog.Errorf("启动评估消费者失败，异步评估不可用: %v", err)
		} else {
			glog.Infof("评估消费者已启动，队列: %s, 工作线程数: %d", cfg.RabbitMQ.EvaluationQueue, cfg.RabbitMQ.ConsumerWorkers)
		}
	}

	serverOptions := []hertzserverconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		// multipart 边界与表单字段需要额外空间
		server.WithMaxRequestBodySize(int(cfg.Server.MaxUploadBytes()) + 1<<20),
		server.WithReadTimeout(time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second),
		server.WithWriteTimeout(time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second),
	}
	var tracingCfg *hertztracing.Config
	if cfg.Tracing.Enabled {
		tracer, tcfg := hertztracing.NewServerTracer()
		serverOptions = append(serverOptions, tracer)
		tracingCfg = tcfg
	}

	h := server.New(serverOptions...)
	if tracingCfg != nil {
		h.Use(hertztracing.ServerMiddleware(tracingCfg))
	}

	atsHandler := handler.NewATSHandler(evaluator, cfg.Server.MaxUploadBytes())
	router.RegisterRoutes(h, atsHandler, router.Options{
		APIKeys:     cfg.Server.APIKeys,
		Metrics:     appMetrics,
		MetricsPath: cfg.Metrics.Path,
	})
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Str("address", cfg.Server.Address).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownTimeout := config.GetDuration(cfg.Server.ShutdownTimeout, constants.DefaultShutdownTimeout)
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}

	// 停止消费者并等待在途消息处理完
	cancel()
	if consumerDone != nil {
		select {
		case <-consumerDone:
			glog.Info("评估消费者已停止")
		case <-shutdownCtx.Done():
			glog.Warn("等待评估消费者退出超时")
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		glog.Errorf("关闭链路追踪失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// componentLoggers 调试级别下把各组件的标准库日志写入全局 zerolog，其他级别丢弃
func componentLoggers(level string) processor.LoggerProvider {
	return func(prefix string) *log.Logger {
		if level != "debug" {
			return log.New(io.Discard, "", 0)
		}
		return log.New(&logger.Logger, prefix, log.Lshortfile)
	}
}
