package processor

import (
	"context"
	"errors"
	"strings"
	"time"

	"ats-filter-go/internal/keyword"
	"ats-filter-go/internal/parser"
	"ats-filter-go/internal/storage"
	"ats-filter-go/internal/tracing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("ats-filter-go/processor")

// 评估类型，用于日志与指标标签
const (
	KindText     = "text"
	KindDocument = "document"
	KindObject   = "object"
)

// Evaluation 一次评估的完整结果
type Evaluation struct {
	keyword.Result
	RequestID        string        `json:"request_id,omitempty"`
	JobSource        string        `json:"job_source"`
	ResumeFormat     string        `json:"resume_format,omitempty"`
	ResumeCharacters int           `json:"resume_characters"`
	Duration         time.Duration `json:"-"`
}

// ATSEvaluator 简历与岗位描述的关键词匹配评估服务。
// 负责简历文本提取、JD解析以及调用匹配器，本身不保存任何评估结果。
type ATSEvaluator struct {
	extractor DocumentExtractor
	matcher   KeywordMatcher
	jd        JobDescriptionResolver
	objects   ObjectFetcher
	recorder  Recorder

	maxDocumentBytes int64
	logger           *zerolog.Logger
}

// NewATSEvaluator 创建评估服务
func NewATSEvaluator(extractor DocumentExtractor, matcher KeywordMatcher, options ...EvaluatorOption) *ATSEvaluator {
	nop := zerolog.Nop()
	e := &ATSEvaluator{
		extractor: extractor,
		matcher:   matcher,
		jd:        NewJDProcessor(),
		recorder:  noopRecorder{},
		logger:    &nop,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Normalize 归一化单段文本
func (e *ATSEvaluator) Normalize(text string) keyword.KeywordSet {
	return e.matcher.Normalize(text)
}

// EvaluateText 对已经是纯文本的简历进行评估
func (e *ATSEvaluator) EvaluateText(ctx context.Context, resumeText string, jd JobDescriptionInput) (evaluation *Evaluation, err error) {
	ctx, span := tracer.Start(ctx, "ATSEvaluator.EvaluateText",
		trace.WithAttributes(attribute.Int("resume.length", len(resumeText))))
	defer span.End()

	start := time.Now()
	defer func() { e.observe(ctx, span, KindText, start, evaluation, err) }()

	requestID := RequestIDFromContext(ctx)
	if jd.IsEmpty() {
		return nil, NewJobDescriptionError(requestID, ErrMissingJobDescription, "", nil)
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, NewEmptyTextError(requestID, "")
	}

	resolved, err := e.jd.Resolve(ctx, jd)
	if err != nil {
		return nil, err
	}
	return e.score(ctx, resumeText, string(parser.FormatText), resolved, start), nil
}

// EvaluateDocument 提取上传文档中的文本后评估。
// 文本提取与JD解析并发进行，两者都成功后才调用匹配器。
func (e *ATSEvaluator) EvaluateDocument(ctx context.Context, data []byte, filename string, jd JobDescriptionInput) (evaluation *Evaluation, err error) {
	ctx, span := tracer.Start(ctx, "ATSEvaluator.EvaluateDocument",
		trace.WithAttributes(
			attribute.String("document.name", tracing.TruncateString(filename, tracing.DefaultMaxLength)),
			attribute.Int("document.size", len(data)),
		))
	defer span.End()

	start := time.Now()
	defer func() { e.observe(ctx, span, KindDocument, start, evaluation, err) }()

	return e.evaluateDocument(ctx, data, filename, jd, start)
}

// EvaluateStoredResume 从对象存储读取简历后评估
func (e *ATSEvaluator) EvaluateStoredResume(ctx context.Context, objectKey string, jd JobDescriptionInput) (evaluation *Evaluation, err error) {
	ctx, span := tracer.Start(ctx, "ATSEvaluator.EvaluateStoredResume",
		trace.WithAttributes(attribute.String("object.key", tracing.TruncateString(objectKey, tracing.DefaultMaxLength))))
	defer span.End()

	start := time.Now()
	defer func() { e.observe(ctx, span, KindObject, start, evaluation, err) }()

	requestID := RequestIDFromContext(ctx)
	if e.objects == nil {
		return nil, NewFetchError(requestID, ErrObjectStorageUnavailable, objectKey, nil)
	}
	if jd.IsEmpty() {
		return nil, NewJobDescriptionError(requestID, ErrMissingJobDescription, "", nil)
	}

	data, err := e.objects.GetResumeFile(ctx, objectKey, e.maxDocumentBytes)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			return nil, NewFetchError(requestID, ErrResumeNotFound, objectKey, err)
		case errors.Is(err, storage.ErrObjectTooLarge):
			return nil, NewFetchError(requestID, ErrDocumentTooLarge, objectKey, err)
		default:
			return nil, NewFetchError(requestID, ErrResumeDownloadFailed, objectKey, err)
		}
	}
	span.AddEvent("resume file downloaded")

	return e.evaluateDocument(ctx, data, objectKey, jd, start)
}

func (e *ATSEvaluator) evaluateDocument(ctx context.Context, data []byte, filename string, jd JobDescriptionInput, start time.Time) (*Evaluation, error) {
	requestID := RequestIDFromContext(ctx)
	if jd.IsEmpty() {
		return nil, NewJobDescriptionError(requestID, ErrMissingJobDescription, "", nil)
	}
	if e.maxDocumentBytes > 0 && int64(len(data)) > e.maxDocumentBytes {
		return nil, NewFetchError(requestID, ErrDocumentTooLarge, filename, nil)
	}
	if len(data) == 0 {
		return nil, NewEmptyTextError(requestID, filename)
	}

	var (
		resumeText string
		format     string
		resolved   ResolvedJobDescription
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, metadata, err := e.extractor.ExtractTextFromBytes(gctx, data, filename)
		if err != nil {
			e.logger.Warn().Err(err).Str("request_id", requestID).Str("file", filename).Msg("简历文本提取失败")
			return NewExtractError(requestID, err)
		}
		if strings.TrimSpace(text) == "" {
			return NewEmptyTextError(requestID, filename)
		}
		if f, ok := metadata["format"].(string); ok {
			format = f
		}
		resumeText = text
		return nil
	})
	g.Go(func() error {
		var err error
		resolved, err = e.jd.Resolve(gctx, jd)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).AddEvent("resume text extracted", trace.WithAttributes(
		attribute.String("resume.preview", tracing.SafeResumeContent(resumeText)),
	))
	return e.score(ctx, resumeText, format, resolved, start), nil
}

func (e *ATSEvaluator) score(ctx context.Context, resumeText, format string, resolved ResolvedJobDescription, start time.Time) *Evaluation {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("jd.source", resolved.Source),
		attribute.String("jd.preview", tracing.SafeJobDescription(resolved.Text)),
	)
	result := e.matcher.Evaluate(resumeText, resolved.Text)
	return &Evaluation{
		Result:           result,
		RequestID:        RequestIDFromContext(ctx),
		JobSource:        resolved.Source,
		ResumeFormat:     format,
		ResumeCharacters: len([]rune(resumeText)),
		Duration:         time.Since(start),
	}
}

func (e *ATSEvaluator) observe(ctx context.Context, span trace.Span, kind string, start time.Time, evaluation *Evaluation, err error) {
	requestID := RequestIDFromContext(ctx)
	if err != nil {
		code := ErrorCode(err)
		tracing.RecordErrorWithInfo(span, err, errorTypeFor(code), attribute.String("error.code", code))
		e.recorder.ObserveFailure(kind, code)
		e.logger.Info().Err(err).Str("request_id", requestID).Str("kind", kind).Str("code", code).Msg("评估未完成")
		return
	}

	span.SetStatus(codes.Ok, "")
	span.SetAttributes(
		attribute.Float64("ats.score", evaluation.Score),
		attribute.String("ats.verdict", string(evaluation.Verdict.Level())),
	)
	e.recorder.ObserveEvaluation(kind, evaluation.Score, evaluation.Verdict, time.Since(start))
	e.logger.Info().
		Str("request_id", requestID).
		Str("kind", kind).
		Str("jd_source", evaluation.JobSource).
		Float64("score", evaluation.Score).
		Int("matched", len(evaluation.MatchedKeywords)).
		Int("missing", len(evaluation.MissingKeywords)).
		Dur("duration", evaluation.Duration).
		Msg("评估完成")
}

func errorTypeFor(code string) tracing.ErrorType {
	switch code {
	case CodeEmptyExtraction, CodeDocumentParse, CodeUnsupportedFormat:
		return tracing.ErrorTypeParse
	case CodeMissingJobDescription, CodeInvalidJobURL, CodeDocumentTooLarge:
		return tracing.ErrorTypeValidation
	case CodeJobNotFound, CodeJobLookupUnavailable:
		return tracing.ErrorTypeDB
	case CodeResumeNotFound, CodeStorageUnavailable:
		return tracing.ErrorTypeMinIO
	case CodeJDFetchFailed:
		return tracing.ErrorTypeExternal
	default:
		return tracing.ErrorTypeInternal
	}
}
