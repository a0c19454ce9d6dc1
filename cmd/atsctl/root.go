package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"ats-filter-go/internal/config"
	"ats-filter-go/internal/logger"
	"ats-filter-go/internal/processor"
	"ats-filter-go/internal/stopwords"
	"ats-filter-go/internal/storage"

	"github.com/spf13/cobra"
)

const (
	app = "atsctl"
)

var (
	// Used for flags.
	cfgFile string
	debug   bool

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "atsctl scores resumes against job descriptions by keyword overlap",
		SilenceUsage: true,
	}
)

// ExecuteContext executes the root command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "a config file (default is config.yaml or configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
}

// loadConfig 加载配置并初始化日志。命令行工具的日志写到 stderr，避免污染 --json 输出。
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if debug {
		level = "debug"
	}
	cfg.Logger.Level = level
	if _, err := logger.Init(logger.Config{
		Level:      level,
		Format:     "pretty",
		TimeFormat: "15:04:05",
		Output:     cmd.ErrOrStderr(),
	}); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, nil
}

// session 一次命令执行所需的组件
type session struct {
	storage   *storage.Storage
	evaluator *processor.ATSEvaluator
	stopWords *stopwords.Set
}

func newSession(ctx context.Context, cfg *config.Config) (*session, error) {
	s := storage.NewStorage(ctx, cfg)

	matcher, set, err := processor.BuildMatcher(ctx, cfg.Matcher, s)
	if err != nil {
		s.Close()
		return nil, err
	}

	loggers := cliLoggers()
	extractor, err := processor.BuildDocumentExtractor(ctx, cfg.Parser, loggers)
	if err != nil {
		s.Close()
		return nil, err
	}

	options := []processor.EvaluatorOption{
		processor.WithJDProcessor(processor.BuildJDProcessor(cfg.JDFetcher, s, loggers)),
		processor.WithMaxDocumentBytes(int64(cfg.Parser.MaxDocumentMB) << 20),
		processor.WithEvaluatorLogger(&logger.Logger),
	}
	if s.MinIO != nil {
		options = append(options, processor.WithObjectFetcher(s.MinIO))
	}

	return &session{
		storage:   s,
		evaluator: processor.NewATSEvaluator(extractor, matcher, options...),
		stopWords: set,
	}, nil
}

func (s *session) Close() {
	s.storage.Close()
}

func cliLoggers() processor.LoggerProvider {
	return func(prefix string) *log.Logger {
		if !debug {
			return log.New(io.Discard, "", 0)
		}
		return log.New(os.Stderr, prefix, log.LstdFlags)
	}
}
