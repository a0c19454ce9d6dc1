package handler

import (
	"context"
	"io"
	"net/http"

	"ats-filter-go/internal/keyword"
	"ats-filter-go/internal/logger"
	"ats-filter-go/internal/processor"
	"ats-filter-go/internal/tracing"
	"ats-filter-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader 响应头中返回的请求ID
const RequestIDHeader = "X-Request-ID"

// 仅在请求本身有误时使用的错误码
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeMissingFile    = "MISSING_FILE"
)

// Evaluator 处理器依赖的评估能力，由 processor.ATSEvaluator 实现
type Evaluator interface {
	EvaluateText(ctx context.Context, resumeText string, jd processor.JobDescriptionInput) (*processor.Evaluation, error)
	EvaluateDocument(ctx context.Context, data []byte, filename string, jd processor.JobDescriptionInput) (*processor.Evaluation, error)
	EvaluateStoredResume(ctx context.Context, objectKey string, jd processor.JobDescriptionInput) (*processor.Evaluation, error)
	Normalize(text string) keyword.KeywordSet
}

var _ Evaluator = (*processor.ATSEvaluator)(nil)

// ATSHandler 简历关键词匹配接口
type ATSHandler struct {
	evaluator      Evaluator
	maxUploadBytes int64
}

// NewATSHandler 创建处理器，maxUploadBytes<=0 表示不限制上传大小
func NewATSHandler(evaluator Evaluator, maxUploadBytes int64) *ATSHandler {
	return &ATSHandler{
		evaluator:      evaluator,
		maxUploadBytes: maxUploadBytes,
	}
}

// Health 健康检查
func (h *ATSHandler) Health(_ context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

// Evaluate 上传简历文件评估，multipart 字段：file、job_description | job_id | job_url
func (h *ATSHandler) Evaluate(ctx context.Context, c *app.RequestContext) {
	requestID := newRequestID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.writeBadRequest(c, requestID, codeMissingFile, "文件未找到")
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		h.writeError(ctx, c, requestID, processor.NewFetchError(requestID, processor.ErrDocumentTooLarge, fileHeader.Filename, nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, types.ErrorResponse{RequestID: requestID, Code: processor.CodeInternal, Error: "打开文件失败"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, types.ErrorResponse{RequestID: requestID, Code: processor.CodeInternal, Error: "读取文件失败"})
		return
	}

	jd := processor.JobDescriptionInput{
		Text:  c.PostForm("job_description"),
		JobID: c.PostForm("job_id"),
		URL:   c.PostForm("job_url"),
	}
	evaluation, err := h.evaluator.EvaluateDocument(processor.WithRequestID(ctx, requestID), data, fileHeader.Filename, jd)
	if err != nil {
		h.writeError(ctx, c, requestID, err)
		return
	}
	c.JSON(consts.StatusOK, types.NewEvaluationResponse(requestID, evaluation))
}

// EvaluateText 纯文本简历评估
func (h *ATSHandler) EvaluateText(ctx context.Context, c *app.RequestContext) {
	requestID := newRequestID(c)

	var req types.EvaluateTextRequest
	if err := c.BindJSON(&req); err != nil {
		h.writeBadRequest(c, requestID, codeInvalidRequest, "请求体不是有效的JSON: "+err.Error())
		return
	}

	evaluation, err := h.evaluator.EvaluateText(processor.WithRequestID(ctx, requestID), req.ResumeText, jobDescriptionInput(req.JobDescriptionFields))
	if err != nil {
		h.writeError(ctx, c, requestID, err)
		return
	}
	c.JSON(consts.StatusOK, types.NewEvaluationResponse(requestID, evaluation))
}

// EvaluateObject 评估已存放在对象存储中的简历
func (h *ATSHandler) EvaluateObject(ctx context.Context, c *app.RequestContext) {
	requestID := newRequestID(c)

	var req types.EvaluateObjectRequest
	if err := c.BindJSON(&req); err != nil {
		h.writeBadRequest(c, requestID, codeInvalidRequest, "请求体不是有效的JSON: "+err.Error())
		return
	}
	if req.ObjectKey == "" {
		h.writeBadRequest(c, requestID, codeInvalidRequest, "object_key 不能为空")
		return
	}

	evaluation, err := h.evaluator.EvaluateStoredResume(processor.WithRequestID(ctx, requestID), req.ObjectKey, jobDescriptionInput(req.JobDescriptionFields))
	if err != nil {
		h.writeError(ctx, c, requestID, err)
		return
	}
	c.JSON(consts.StatusOK, types.NewEvaluationResponse(requestID, evaluation))
}

// Normalize 返回文本归一化后的关键词集合
func (h *ATSHandler) Normalize(_ context.Context, c *app.RequestContext) {
	requestID := newRequestID(c)

	var req types.NormalizeRequest
	if err := c.BindJSON(&req); err != nil {
		h.writeBadRequest(c, requestID, codeInvalidRequest, "请求体不是有效的JSON: "+err.Error())
		return
	}

	set := h.evaluator.Normalize(req.Text)
	keywords := set.Words()
	if keywords == nil {
		keywords = []string{}
	}
	c.JSON(consts.StatusOK, types.NormalizeResponse{Keywords: keywords, Count: len(keywords)})
}

func (h *ATSHandler) writeBadRequest(c *app.RequestContext, requestID, code, message string) {
	c.JSON(consts.StatusBadRequest, types.ErrorResponse{RequestID: requestID, Code: code, Error: message})
}

func (h *ATSHandler) writeError(ctx context.Context, c *app.RequestContext, requestID string, err error) {
	code := processor.ErrorCode(err)
	status := StatusForCode(code)
	tracing.RecordHTTPError(trace.SpanFromContext(ctx), err, status, code)
	if status >= consts.StatusInternalServerError {
		logger.Ctx(ctx).Error().Err(err).Str("request_id", requestID).Str("code", code).Msg("评估请求失败")
	}
	c.JSON(status, types.ErrorResponse{
		RequestID: requestID,
		Code:      code,
		Error:     processor.PublicMessage(err),
	})
}

// StatusForCode 错误码到 HTTP 状态码的映射
func StatusForCode(code string) int {
	switch code {
	case processor.CodeEmptyExtraction, processor.CodeDocumentParse,
		processor.CodeMissingJobDescription, processor.CodeInvalidJobURL:
		return http.StatusBadRequest
	case processor.CodeJobNotFound, processor.CodeResumeNotFound:
		return http.StatusNotFound
	case processor.CodeDocumentTooLarge:
		return http.StatusRequestEntityTooLarge
	case processor.CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case processor.CodeJDFetchFailed:
		return http.StatusBadGateway
	case processor.CodeStorageUnavailable, processor.CodeJobLookupUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func newRequestID(c *app.RequestContext) string {
	requestID := string(c.GetHeader(RequestIDHeader))
	if requestID == "" {
		if id, err := uuid.NewV7(); err == nil {
			requestID = id.String()
		} else {
			requestID = uuid.Must(uuid.NewV4()).String()
		}
	}
	c.Header(RequestIDHeader, requestID)
	return requestID
}

func jobDescriptionInput(fields types.JobDescriptionFields) processor.JobDescriptionInput {
	return processor.JobDescriptionInput{
		Text:  fields.JobDescription,
		JobID: fields.JobID,
		URL:   fields.JobURL,
	}
}
