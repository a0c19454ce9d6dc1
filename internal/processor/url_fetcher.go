package processor

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ats-filter-go/internal/config"
	"ats-filter-go/internal/constants"
	"ats-filter-go/internal/parser"
	"ats-filter-go/internal/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const defaultUserAgent = constants.ServiceName + "/jd-fetcher"

// URLFetcher 按 URL 抓取岗位页面，并用 goquery 转成纯文本
type URLFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	maxBytes  int64
	userAgent string
	html      *parser.HTMLExtractor
	logger    *log.Logger
}

// URLFetcherOption URLFetcher 配置选项
type URLFetcherOption func(*URLFetcher)

// WithFetcherHTTPClient 使用自定义 HTTP 客户端
func WithFetcherHTTPClient(client *http.Client) URLFetcherOption {
	return func(f *URLFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithFetcherLogger 设置日志记录器
func WithFetcherLogger(logger *log.Logger) URLFetcherOption {
	return func(f *URLFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

var _ PageFetcher = (*URLFetcher)(nil)

// NewURLFetcher 根据配置创建抓取器
func NewURLFetcher(cfg config.JDFetcherConfig, options ...URLFetcherOption) *URLFetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = constants.DefaultJDFetchRateLimit
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = constants.DefaultJDFetchMaxBytes
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	f := &URLFetcher{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(rateLimit), 1),
		maxBytes:  maxBytes,
		userAgent: userAgent,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(f)
	}
	f.html = parser.NewHTMLExtractor(parser.WithHTMLLogger(f.logger))
	return f
}

// Fetch 抓取页面并返回正文文本，仅支持 http/https
func (f *URLFetcher) Fetch(ctx context.Context, rawURL string) (text string, err error) {
	ctx, span := tracer.Start(ctx, "URLFetcher.Fetch",
		trace.WithAttributes(attribute.String("http.url", tracing.SafeURL(rawURL))))
	defer func() {
		tracing.RecordError(span, err, tracing.ErrorTypeExternal)
		span.SetAttributes(attribute.Int("jd.length", len(text)))
		span.End()
	}()

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidJobURL, rawURL)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.1")

	f.logger.Printf("抓取岗位描述: %s", u.String())
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求 %s 失败: %w", u.String(), err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, u.String())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("页面大小超过上限 %d 字节", f.maxBytes)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		text, _, err = parser.PlainTextExtractor{}.ExtractTextFromBytes(ctx, body, u.String())
		return text, err
	}

	text, _, err = f.html.ExtractTextFromBytes(ctx, body, u.String())
	if err != nil {
		return "", err
	}
	f.logger.Printf("岗位描述抓取完成: %s, 文本长度: %d", u.String(), len(text))
	return text, nil
}
