package types

import "ats-filter-go/internal/processor"

// JobDescriptionFields 三种岗位描述来源，按 job_description > job_id > job_url 的顺序使用
type JobDescriptionFields struct {
	JobDescription string `json:"job_description,omitempty"`
	JobID          string `json:"job_id,omitempty"`
	JobURL         string `json:"job_url,omitempty"`
}

// EvaluateTextRequest 纯文本简历评估请求
type EvaluateTextRequest struct {
	ResumeText string `json:"resume_text"`
	JobDescriptionFields
}

// EvaluateObjectRequest 按对象键评估已上传到 MinIO 的简历
type EvaluateObjectRequest struct {
	ObjectKey string `json:"object_key"`
	JobDescriptionFields
}

// NormalizeRequest 关键词归一化请求
type NormalizeRequest struct {
	Text string `json:"text"`
}

// NormalizeResponse 关键词归一化结果，关键词按字典序排列
type NormalizeResponse struct {
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
}

// EvaluationResponse 评估结果
type EvaluationResponse struct {
	RequestID          string   `json:"request_id"`
	Score              float64  `json:"score"`
	Verdict            string   `json:"verdict"`
	Message            string   `json:"message"`
	Level              string   `json:"level"` // success, warning, error
	MatchedKeywords    []string `json:"matched_keywords"`
	MissingKeywords    []string `json:"missing_keywords"`
	ResumeKeywordCount int      `json:"resume_keyword_count"`
	JobKeywordCount    int      `json:"job_keyword_count"`
	JobSource          string   `json:"job_source"`
	ResumeFormat       string   `json:"resume_format,omitempty"`
	DurationMS         int64    `json:"duration_ms"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Error     string `json:"error"`
}

// NewEvaluationResponse 把评估结果转换为接口响应，关键词列表不会是 null
func NewEvaluationResponse(requestID string, evaluation *processor.Evaluation) EvaluationResponse {
	matched := evaluation.MatchedKeywords
	if matched == nil {
		matched = []string{}
	}
	missing := evaluation.MissingKeywords
	if missing == nil {
		missing = []string{}
	}
	return EvaluationResponse{
		RequestID:          requestID,
		Score:              evaluation.Score,
		Verdict:            evaluation.Verdict.String(),
		Message:            evaluation.Verdict.Message(),
		Level:              string(evaluation.Verdict.Level()),
		MatchedKeywords:    matched,
		MissingKeywords:    missing,
		ResumeKeywordCount: evaluation.ResumeKeywordCount,
		JobKeywordCount:    evaluation.JobKeywordCount,
		JobSource:          evaluation.JobSource,
		ResumeFormat:       evaluation.ResumeFormat,
		DurationMS:         evaluation.Duration.Milliseconds(),
	}
}
