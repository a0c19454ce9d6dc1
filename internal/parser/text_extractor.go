package parser

import (
	"bytes"
	"context"
	"errors"
	"io"
	"unicode/utf8"
)

// PlainTextExtractor 纯文本直接透传，只校验编码
type PlainTextExtractor struct{}

var _ TextExtractor = PlainTextExtractor{}

// ExtractTextFromBytes 校验 UTF-8 后原样返回
func (PlainTextExtractor) ExtractTextFromBytes(_ context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", nil, newParseError(uri, FormatText, errors.New("文本不是有效的 UTF-8 编码"))
	}
	text := string(data)
	metadata := baseMetadata(uri, FormatText)
	metadata["text_length"] = len(text)
	return text, metadata, nil
}

// ExtractTextFromReader 读取全部内容后处理
func (p PlainTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, err
	}
	return p.ExtractTextFromBytes(ctx, data, uri)
}
