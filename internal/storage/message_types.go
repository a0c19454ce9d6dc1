package storage

import "time"

// 评估结果状态
const (
	EvaluationStatusCompleted = "COMPLETED"
	EvaluationStatusFailed    = "FAILED"
)

// EvaluationRequestMessage 异步评估请求消息
type EvaluationRequestMessage struct {
	RequestID string    `json:"request_id"`           // 请求ID，结果消息原样带回
	CreatedAt time.Time `json:"created_at,omitempty"` // 请求创建时间

	// 简历来源：对象键或直接给出文本，二选一
	ResumeObjectKey string `json:"resume_object_key,omitempty"`
	ResumeText      string `json:"resume_text,omitempty"`

	// 岗位描述来源：文本 > 岗位ID > URL
	JobDescription string `json:"job_description,omitempty"`
	JobID          string `json:"job_id,omitempty"`
	JobURL         string `json:"job_url,omitempty"`

	// 结果路由键，为空时使用配置的 result_routing_key
	ReplyRoutingKey string `json:"reply_routing_key,omitempty"`
}

// EvaluationResultMessage 异步评估结果消息
type EvaluationResultMessage struct {
	RequestID   string    `json:"request_id"`
	Status      string    `json:"status"` // COMPLETED 或 FAILED
	CompletedAt time.Time `json:"completed_at"`

	Score              float64  `json:"score"`
	Verdict            string   `json:"verdict,omitempty"`
	MatchedKeywords    []string `json:"matched_keywords,omitempty"`
	MissingKeywords    []string `json:"missing_keywords,omitempty"`
	ResumeKeywordCount int      `json:"resume_keyword_count"`
	JobKeywordCount    int      `json:"job_keyword_count"`

	Error     string `json:"error,omitempty"`      // 失败原因
	ErrorCode string `json:"error_code,omitempty"` // 例如 EMPTY_EXTRACTION、DOCUMENT_PARSE
}
