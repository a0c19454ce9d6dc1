package processor

import (
	"context"
	"io"
	"time"

	"ats-filter-go/internal/keyword"
)

//
// 文档解析相关接口
//

// DocumentExtractor 文档文本提取器接口，parser 包中的提取器均实现此接口
type DocumentExtractor interface {
	// ExtractTextFromReader 从io.Reader提取文本和元数据
	// 参数：
	// - ctx: 上下文
	// - reader: 文档内容的读取器
	// - uri: 资源标识符（文件名或对象键，用于格式检测与日志）
	// 返回：
	// - 提取的文本
	// - 附加的元数据（格式、页数等）
	// - 错误信息，无法解析时为 *parser.DocumentParseError
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, map[string]interface{}, error)

	// ExtractTextFromBytes 从字节数组提取文本和元数据
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error)
}

//
// 关键词匹配相关接口
//

// KeywordMatcher 关键词匹配器接口，由 keyword.Matcher 实现
type KeywordMatcher interface {
	// Evaluate 归一化简历与JD文本并打分
	Evaluate(resumeText, jobText string) keyword.Result

	// Normalize 归一化单段文本
	Normalize(text string) keyword.KeywordSet
}

//
// 岗位描述来源相关接口
//

// JDTextCache JD文本缓存接口，由 storage.Redis 实现
type JDTextCache interface {
	GetCachedJDText(ctx context.Context, jobID string) (string, error)
	SetCachedJDText(ctx context.Context, jobID, text string, ttl time.Duration) error
	GetCachedURLText(ctx context.Context, urlHash string) (string, error)
	SetCachedURLText(ctx context.Context, urlHash, text string, ttl time.Duration) error
}

// JobStore 岗位数据源接口，由 storage.MySQL 实现
type JobStore interface {
	// GetJobDescriptionText 读取岗位JD文本，岗位不存在时返回 storage.ErrRecordNotFound
	GetJobDescriptionText(ctx context.Context, jobID string) (string, error)
}

// PageFetcher 按 URL 抓取JD页面并转换为纯文本
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// JobDescriptionResolver 把请求中的JD输入解析为最终文本
type JobDescriptionResolver interface {
	Resolve(ctx context.Context, input JobDescriptionInput) (ResolvedJobDescription, error)
}

//
// 简历来源与观测相关接口
//

// ObjectFetcher 读取对象存储中的简历，由 storage.MinIO 实现
type ObjectFetcher interface {
	GetResumeFile(ctx context.Context, objectKey string, maxBytes int64) ([]byte, error)
}

// Recorder 评估结果观测接口，由 metrics 包实现
type Recorder interface {
	// ObserveEvaluation 记录一次成功的评估，kind 为 text/document/object
	ObserveEvaluation(kind string, score float64, verdict keyword.Verdict, duration time.Duration)

	// ObserveFailure 记录一次失败的评估，reason 为 ErrorCode 的返回值
	ObserveFailure(kind string, reason string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveEvaluation(string, float64, keyword.Verdict, time.Duration) {}
func (noopRecorder) ObserveFailure(string, string)                                   {}
