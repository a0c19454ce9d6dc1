package processor

import (
	"errors"
	"fmt"

	"ats-filter-go/internal/parser"
)

// 定义基础错误类型
var (
	ErrEmptyExtraction          = errors.New("could not extract text from the uploaded document")
	ErrMissingJobDescription    = errors.New("缺少岗位描述")
	ErrJobNotFound              = errors.New("岗位不存在")
	ErrJobLookupUnavailable     = errors.New("岗位数据源不可用")
	ErrURLFetchDisabled         = errors.New("未启用按URL抓取岗位描述")
	ErrInvalidJobURL            = errors.New("岗位描述URL无效")
	ErrJDFetchFailed            = errors.New("抓取岗位描述失败")
	ErrExtractFailed            = errors.New("提取简历文本失败")
	ErrResumeDownloadFailed     = errors.New("下载简历失败")
	ErrResumeNotFound           = errors.New("简历对象不存在")
	ErrObjectStorageUnavailable = errors.New("对象存储未配置")
	ErrDocumentTooLarge         = errors.New("简历文件超过大小上限")
)

// 错误码，用于 HTTP 响应、结果消息和指标标签
const (
	CodeEmptyExtraction       = "EMPTY_EXTRACTION"
	CodeDocumentParse         = "DOCUMENT_PARSE_ERROR"
	CodeUnsupportedFormat     = "UNSUPPORTED_FORMAT"
	CodeMissingJobDescription = "MISSING_JOB_DESCRIPTION"
	CodeJobNotFound           = "JOB_NOT_FOUND"
	CodeJobLookupUnavailable  = "JOB_LOOKUP_UNAVAILABLE"
	CodeInvalidJobURL         = "INVALID_JOB_URL"
	CodeJDFetchFailed         = "JD_FETCH_FAILED"
	CodeResumeNotFound        = "RESUME_NOT_FOUND"
	CodeDocumentTooLarge      = "DOCUMENT_TOO_LARGE"
	CodeStorageUnavailable    = "STORAGE_UNAVAILABLE"
	CodeInternal              = "INTERNAL_ERROR"
)

// EvaluationError 包含详细错误信息的自定义错误
type EvaluationError struct {
	RequestID string
	Op        string
	BaseErr   error
	Detail    string
	Cause     error
}

func (e *EvaluationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 请求:%s): %s", e.BaseErr, e.Op, e.RequestID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 请求:%s)", e.BaseErr, e.Op, e.RequestID)
}

// Unwrap 同时暴露基础错误和底层原因，errors.Is 可匹配任意一个
func (e *EvaluationError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.BaseErr != nil {
		errs = append(errs, e.BaseErr)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Message 面向调用方的错误描述，不含请求ID
func (e *EvaluationError) Message() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.BaseErr, e.Detail)
	}
	return e.BaseErr.Error()
}

// 错误构造函数

func NewExtractError(requestID string, cause error) error {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return &EvaluationError{
		RequestID: requestID,
		Op:        "extract",
		BaseErr:   ErrExtractFailed,
		Detail:    detail,
		Cause:     cause,
	}
}

func NewEmptyTextError(requestID, uri string) error {
	return &EvaluationError{
		RequestID: requestID,
		Op:        "extract",
		BaseErr:   ErrEmptyExtraction,
		Detail:    uri,
	}
}

func NewJobDescriptionError(requestID string, base error, detail string, cause error) error {
	return &EvaluationError{
		RequestID: requestID,
		Op:        "resolve_jd",
		BaseErr:   base,
		Detail:    detail,
		Cause:     cause,
	}
}

func NewFetchError(requestID string, base error, objectKey string, cause error) error {
	return &EvaluationError{
		RequestID: requestID,
		Op:        "download",
		BaseErr:   base,
		Detail:    objectKey,
		Cause:     cause,
	}
}

// ErrorCode 把错误映射为稳定的错误码
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyExtraction):
		return CodeEmptyExtraction
	case errors.Is(err, parser.ErrUnsupportedFormat):
		return CodeUnsupportedFormat
	case errors.Is(err, parser.ErrDocumentParse), errors.Is(err, ErrExtractFailed):
		return CodeDocumentParse
	case errors.Is(err, ErrMissingJobDescription):
		return CodeMissingJobDescription
	case errors.Is(err, ErrJobNotFound):
		return CodeJobNotFound
	case errors.Is(err, ErrJobLookupUnavailable):
		return CodeJobLookupUnavailable
	case errors.Is(err, ErrInvalidJobURL):
		return CodeInvalidJobURL
	case errors.Is(err, ErrJDFetchFailed), errors.Is(err, ErrURLFetchDisabled):
		return CodeJDFetchFailed
	case errors.Is(err, ErrResumeNotFound):
		return CodeResumeNotFound
	case errors.Is(err, ErrDocumentTooLarge):
		return CodeDocumentTooLarge
	case errors.Is(err, ErrObjectStorageUnavailable), errors.Is(err, ErrResumeDownloadFailed):
		return CodeStorageUnavailable
	default:
		return CodeInternal
	}
}

// PublicMessage 返回可以直接展示给调用方的错误描述
func PublicMessage(err error) string {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if errors.Is(err, ErrEmptyExtraction) {
			return ErrEmptyExtraction.Error()
		}
		return evalErr.Message()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
