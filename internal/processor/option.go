package processor

import (
	"github.com/rs/zerolog"
)

// EvaluatorOption ATSEvaluator 配置选项函数类型
type EvaluatorOption func(*ATSEvaluator)

// WithJDProcessor 设置岗位描述解析器，默认只接受请求中直接给出的JD文本
func WithJDProcessor(resolver JobDescriptionResolver) EvaluatorOption {
	return func(e *ATSEvaluator) {
		if resolver != nil {
			e.jd = resolver
		}
	}
}

// WithObjectFetcher 设置简历对象读取器，未设置时按对象键评估不可用
func WithObjectFetcher(fetcher ObjectFetcher) EvaluatorOption {
	return func(e *ATSEvaluator) {
		e.objects = fetcher
	}
}

// WithEvaluatorLogger 设置日志记录器
func WithEvaluatorLogger(logger *zerolog.Logger) EvaluatorOption {
	return func(e *ATSEvaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxDocumentBytes 设置单个简历文档的大小上限，<=0 表示不限制
func WithMaxDocumentBytes(n int64) EvaluatorOption {
	return func(e *ATSEvaluator) {
		e.maxDocumentBytes = n
	}
}

// WithRecorder 设置评估指标记录器
func WithRecorder(recorder Recorder) EvaluatorOption {
	return func(e *ATSEvaluator) {
		if recorder != nil {
			e.recorder = recorder
		}
	}
}
