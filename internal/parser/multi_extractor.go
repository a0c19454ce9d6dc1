package parser

import (
	"bytes"
	"context"
	"io"
	"log"
)

// MultiExtractor 按检测到的格式把文档路由到对应的提取器
type MultiExtractor struct {
	extractors map[Format]TextExtractor
	fallback   TextExtractor
	logger     *log.Logger
}

// MultiOption MultiExtractor 配置选项
type MultiOption func(*MultiExtractor)

// WithFormatExtractor 为某种格式注册提取器
func WithFormatExtractor(format Format, extractor TextExtractor) MultiOption {
	return func(m *MultiExtractor) {
		if extractor != nil {
			m.extractors[format] = extractor
		}
	}
}

// WithFallbackExtractor 没有专用提取器的格式交给 fallback（通常是 Tika）
func WithFallbackExtractor(extractor TextExtractor) MultiOption {
	return func(m *MultiExtractor) {
		m.fallback = extractor
	}
}

// WithMultiLogger 配置自定义日志记录器
func WithMultiLogger(logger *log.Logger) MultiOption {
	return func(m *MultiExtractor) {
		m.logger = logger
	}
}

var _ TextExtractor = (*MultiExtractor)(nil)

// NewMultiExtractor 创建路由提取器，默认只注册纯文本与 HTML
func NewMultiExtractor(options ...MultiOption) *MultiExtractor {
	m := &MultiExtractor{
		extractors: map[Format]TextExtractor{
			FormatText: PlainTextExtractor{},
			FormatHTML: NewHTMLExtractor(),
		},
		logger: log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Supports 判断某种格式是否有可用的提取器
func (m *MultiExtractor) Supports(format Format) bool {
	_, ok := m.extractors[format]
	return ok || m.fallback != nil
}

// ExtractTextFromBytes 检测格式并调用对应提取器
func (m *MultiExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	format := DetectFormat(uri, data)
	extractor, ok := m.extractors[format]
	if !ok {
		if m.fallback == nil {
			m.logger.Printf("不支持的文档格式: %s (URI: %s)", format, uri)
			return "", nil, newParseError(uri, format, ErrUnsupportedFormat)
		}
		extractor = m.fallback
	}

	m.logger.Printf("文档 %s 识别为 %s 格式", uri, format)
	text, metadata, err := extractor.ExtractTextFromBytes(ctx, data, uri)
	if err != nil {
		return "", nil, err
	}
	return text, metadata, nil
}

// ExtractTextFromReader 格式检测需要完整内容，先读入内存
func (m *MultiExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", nil, err
	}
	return m.ExtractTextFromBytes(ctx, buf.Bytes(), uri)
}
