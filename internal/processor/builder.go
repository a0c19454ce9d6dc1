package processor

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"ats-filter-go/internal/config"
	"ats-filter-go/internal/constants"
	"ats-filter-go/internal/keyword"
	"ats-filter-go/internal/parser"
	"ats-filter-go/internal/stopwords"
	"ats-filter-go/internal/storage"
)

// LoggerProvider 按组件前缀返回标准库 logger
type LoggerProvider func(prefix string) *log.Logger

func discardLoggers(string) *log.Logger {
	return log.New(io.Discard, "", 0)
}

// BuildDocumentExtractor 按配置组装按格式路由的文档提取器：
// PDF 使用 eino 或 Tika，HTML 使用 goquery，纯文本直接透传，其他格式在启用时交给 Tika。
func BuildDocumentExtractor(ctx context.Context, cfg config.ParserConfig, loggers LoggerProvider) (*parser.MultiExtractor, error) {
	if loggers == nil {
		loggers = discardLoggers
	}
	timeout := config.GetDuration(cfg.ExtractionTimeout, constants.DefaultExtractTimeout)

	var tika *parser.TikaExtractor
	if cfg.Tika.ServerURL != "" {
		tikaTimeout := time.Duration(cfg.Tika.Timeout) * time.Second
		if tikaTimeout <= 0 {
			tikaTimeout = timeout
		}
		tika = parser.NewTikaExtractor(cfg.Tika.ServerURL,
			parser.WithTimeout(tikaTimeout),
			parser.WithTikaLogger(loggers("[TikaExtractor] ")),
		)
	}

	options := []parser.MultiOption{
		parser.WithFormatExtractor(parser.FormatHTML, parser.NewHTMLExtractor(parser.WithHTMLLogger(loggers("[HTMLExtractor] ")))),
		parser.WithMultiLogger(loggers("[MultiExtractor] ")),
	}

	switch cfg.Type {
	case "tika":
		if tika == nil {
			return nil, fmt.Errorf("parser.type=tika 但未配置 parser.tika.server_url")
		}
		options = append(options, parser.WithFormatExtractor(parser.FormatPDF, tika))
	default:
		pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx,
			parser.WithEinoTimeout(timeout),
			parser.WithEinoLogger(loggers("[EinoPDFExtractor] ")),
		)
		if err != nil {
			return nil, fmt.Errorf("初始化PDF提取器失败: %w", err)
		}
		options = append(options, parser.WithFormatExtractor(parser.FormatPDF, pdfExtractor))
	}

	if tika != nil && cfg.TikaForUnsupported {
		options = append(options,
			parser.WithFormatExtractor(parser.FormatOffice, tika),
			parser.WithFallbackExtractor(tika),
		)
	}

	return parser.NewMultiExtractor(options...), nil
}

// BuildJDProcessor 按可用的存储组件组装 JD 解析器，缺失的组件对应功能不可用
func BuildJDProcessor(cfg config.JDFetcherConfig, s *storage.Storage, loggers LoggerProvider) *JDProcessor {
	if loggers == nil {
		loggers = discardLoggers
	}
	options := []JDOption{
		WithJDCacheTTL(config.GetDuration(cfg.CacheTTL, constants.JDCacheDuration)),
		WithJDProcessorLogger(loggers("[JDProcessor] ")),
	}
	// 只在组件非 nil 时注入，避免 nil 指针包进非 nil 接口
	if s != nil && s.Redis != nil {
		options = append(options, WithJDCache(s.Redis))
	}
	if s != nil && s.MySQL != nil {
		options = append(options, WithJobStore(s.MySQL))
	}
	if cfg.Enabled {
		options = append(options, WithPageFetcher(NewURLFetcher(cfg, WithFetcherLogger(loggers("[URLFetcher] ")))))
	}
	return NewJDProcessor(options...)
}

// BuildStopWordProvider 按 matcher.stopwords.source 选择停用词来源。
// 外部来源未初始化时直接报错；开启 fallback_to_builtin 时失败回退到内置列表。
func BuildStopWordProvider(cfg config.StopWordsConfig, s *storage.Storage) (stopwords.Provider, error) {
	var provider stopwords.Provider
	switch cfg.Source {
	case "", "builtin":
		return stopwords.Builtin{}, nil
	case "file":
		provider = stopwords.NewFileProvider(cfg.File)
	case "redis":
		if s == nil || s.Redis == nil {
			if !cfg.FallbackToBuiltin {
				return nil, fmt.Errorf("停用词来源为 redis 但 Redis 未初始化")
			}
			return stopwords.Builtin{}, nil
		}
		provider = stopwords.NewSourceProvider("redis", s.Redis)
	case "mysql":
		if s == nil || s.MySQL == nil {
			if !cfg.FallbackToBuiltin {
				return nil, fmt.Errorf("停用词来源为 mysql 但 MySQL 未初始化")
			}
			return stopwords.Builtin{}, nil
		}
		provider = stopwords.NewSourceProvider("mysql", s.MySQL)
	default:
		return nil, fmt.Errorf("未知的停用词来源: %s", cfg.Source)
	}

	if cfg.FallbackToBuiltin {
		provider = stopwords.Fallback(provider, stopwords.Builtin{})
	}
	return provider, nil
}

// BuildMatcher 加载停用词并创建关键词匹配器，停用词集合只在启动时加载一次
func BuildMatcher(ctx context.Context, cfg config.MatcherConfig, s *storage.Storage) (*keyword.Matcher, *stopwords.Set, error) {
	provider, err := BuildStopWordProvider(cfg.StopWords, s)
	if err != nil {
		return nil, nil, err
	}
	set, err := stopwords.Load(ctx, provider, cfg.Language)
	if err != nil {
		return nil, nil, fmt.Errorf("加载停用词失败: %w", err)
	}

	var options []keyword.NormalizerOption
	if !cfg.SplitContractions {
		options = append(options, keyword.WithTokenizer(keyword.NewPlainWordTokenizer()))
	}
	return keyword.NewMatcher(keyword.NewNormalizer(set, options...)), set, nil
}
