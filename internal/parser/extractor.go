package parser

import (
	"context"
	"io"
)

// TextExtractor 文档文本提取器，与 processor.DocumentExtractor 方法集一致
type TextExtractor interface {
	// ExtractTextFromReader 从io.Reader提取文本和元数据
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error)

	// ExtractTextFromBytes 从字节数组提取文本和元数据
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error)
}

// baseMetadata 所有提取器共有的元数据
func baseMetadata(uri string, format Format) map[string]interface{} {
	return map[string]interface{}{
		"source_uri": uri,
		"format":     string(format),
	}
}
