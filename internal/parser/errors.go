package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentParse 文档无法解析（损坏、加密或不是声明的格式）
	ErrDocumentParse = errors.New("document parse failed")
	// ErrUnsupportedFormat 没有可用的提取器处理该格式
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// DocumentParseError 提取器失败时返回的结构化错误
type DocumentParseError struct {
	URI    string
	Format Format
	Err    error
}

// Error 实现 error 接口
func (e *DocumentParseError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("解析%s文档失败: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("解析%s文档 %s 失败: %v", e.Format, e.URI, e.Err)
}

// Unwrap 返回底层错误
func (e *DocumentParseError) Unwrap() error {
	return e.Err
}

// Is 使 errors.Is(err, ErrDocumentParse) 对所有解析错误成立
func (e *DocumentParseError) Is(target error) bool {
	return target == ErrDocumentParse
}

// newParseError 包装提取器错误
func newParseError(uri string, format Format, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *DocumentParseError
	if errors.As(err, &parseErr) {
		return err
	}
	return &DocumentParseError{URI: uri, Format: format, Err: err}
}
