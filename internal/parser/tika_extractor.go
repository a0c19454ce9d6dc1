package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// TikaExtractor 基于 Apache Tika Server 的通用文档解析器
// 支持 PDF、DOCX 等 Tika 能识别的任何格式
type TikaExtractor struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	// HTTP客户端，可配置超时等参数
	Client *http.Client
	// 是否额外请求 /meta 获取关键元数据
	extractMetadata bool
	logger          *log.Logger
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaExtractor)

// WithMetadata 配置是否提取关键元数据
func WithMetadata(extract bool) TikaOption {
	return func(e *TikaExtractor) {
		e.extractMetadata = extract
	}
}

// WithTikaLogger 配置自定义日志记录器
func WithTikaLogger(logger *log.Logger) TikaOption {
	return func(e *TikaExtractor) {
		e.logger = logger
	}
}

// WithTimeout 配置HTTP客户端超时时间
func WithTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaExtractor) {
		if timeout > 0 {
			e.Client.Timeout = timeout
		}
	}
}

// WithHTTPClient 使用自定义 HTTP 客户端
func WithHTTPClient(client *http.Client) TikaOption {
	return func(e *TikaExtractor) {
		if client != nil {
			e.Client = client
		}
	}
}

var _ TextExtractor = (*TikaExtractor)(nil)

// NewTikaExtractor 创建一个新的Tika解析器
func NewTikaExtractor(serverURL string, options ...TikaOption) *TikaExtractor {
	extractor := &TikaExtractor{
		ServerURL:       strings.TrimRight(serverURL, "/"),
		Client:          &http.Client{Timeout: 60 * time.Second},
		extractMetadata: true,
		logger:          log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// ExtractTextFromReader 从io.Reader提取文本内容
func (e *TikaExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("读取文档内容失败: %w", err)
	}
	return e.ExtractTextFromBytes(ctx, data, uri)
}

// ExtractTextFromBytes 从字节数组提取文本内容
func (e *TikaExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()
	format := DetectFormat(uri, data)
	e.logger.Printf("开始通过Tika提取文本 (URI: %s, 格式: %s)", uri, format)

	resp, err := e.put(ctx, "/tika", "text/plain", format, data, uri)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnsupportedMediaType:
		return "", nil, newParseError(uri, format, ErrUnsupportedFormat)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		// Tika 对损坏或加密的文档返回 422
		return "", nil, newParseError(uri, format, fmt.Errorf("tika无法解析文档: %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return "", nil, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	textBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("读取Tika响应失败: %w", err)
	}
	text := string(textBytes)

	metadata := baseMetadata(uri, format)
	metadata["text_length"] = len(text)
	metadata["processing_duration_ms"] = time.Since(startTime).Milliseconds()

	if e.extractMetadata {
		rawMetadata, err := e.fetchMetadata(ctx, format, data, uri)
		if err != nil {
			e.logger.Printf("元数据提取失败: %v, 继续使用基本元数据", err)
		}
		for k, v := range rawMetadata {
			if isImportantMetadata(k) {
				metadata[k] = v
			}
		}
	}

	e.logger.Printf("Tika文本提取完成: 提取了 %d 个字符 (用时 %.2f秒)", len(text), time.Since(startTime).Seconds())
	return text, metadata, nil
}

func (e *TikaExtractor) put(ctx context.Context, path, accept string, format Format, data []byte, uri string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.ServerURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	if format != FormatUnknown && format != FormatOffice {
		req.Header.Set("Content-Type", format.MIMEType())
	}
	req.Header.Set("Accept", accept)
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	return resp, nil
}

// fetchMetadata 通过 /meta 获取文档元数据
func (e *TikaExtractor) fetchMetadata(ctx context.Context, format Format, data []byte, uri string) (map[string]interface{}, error) {
	resp, err := e.put(ctx, "/meta", "application/json", format, data, uri)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	var metadata map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("解析元数据JSON失败: %w", err)
	}
	return metadata, nil
}

// 判断元数据字段是否重要
func isImportantMetadata(key string) bool {
	switch key {
	case "Content-Type", "xmpTPg:NPages", "dc:title", "dc:creator", "language",
		"dcterms:created", "pdf:PDFVersion", "meta:word-count":
		return true
	}
	return false
}
