package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ats-filter-go/internal/config"
	"ats-filter-go/internal/constants"
	"ats-filter-go/internal/logger"
	"ats-filter-go/internal/processor"
	"ats-filter-go/internal/storage"
	"ats-filter-go/internal/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("ats-filter-go/worker")

// Evaluator 消费者依赖的评估能力，由 processor.ATSEvaluator 实现
type Evaluator interface {
	EvaluateText(ctx context.Context, resumeText string, jd processor.JobDescriptionInput) (*processor.Evaluation, error)
	EvaluateStoredResume(ctx context.Context, objectKey string, jd processor.JobDescriptionInput) (*processor.Evaluation, error)
}

// Publisher 结果消息发布接口，由 storage.RabbitMQ 实现
type Publisher interface {
	PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error
}

// EvaluationConsumer 消费异步评估请求并发布评估结果。
// 评估是纯计算，失败不会因重试而改变，所以任何消息都只处理一次。
type EvaluationConsumer struct {
	evaluator Evaluator
	publisher Publisher
	cfg       config.RabbitMQConfig
	timeout   time.Duration
}

// NewEvaluationConsumer 创建消费者
func NewEvaluationConsumer(evaluator Evaluator, publisher Publisher, cfg config.RabbitMQConfig) *EvaluationConsumer {
	return &EvaluationConsumer{
		evaluator: evaluator,
		publisher: publisher,
		cfg:       cfg,
		timeout:   config.GetDuration(cfg.MessageTimeout, constants.DefaultMessageTimeout),
	}
}

// Start 声明拓扑并开始消费，返回的通道在所有 worker 退出后关闭
func (c *EvaluationConsumer) Start(ctx context.Context, mq *storage.RabbitMQ) (<-chan struct{}, error) {
	if err := mq.SetupEvaluationTopology(); err != nil {
		return nil, err
	}
	return mq.StartConsumer(ctx, c.cfg.EvaluationQueue, c.cfg.PrefetchCount, c.cfg.ConsumerWorkers, false, c.HandleDelivery)
}

// HandleDelivery 处理一条请求消息，返回 false 时消息被拒绝且不重新入队
func (c *EvaluationConsumer) HandleDelivery(ctx context.Context, body []byte) bool {
	ctx, span := tracer.Start(ctx, "EvaluationConsumer.HandleDelivery",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", c.cfg.EvaluationQueue),
			attribute.Int("messaging.message.body.size", len(body)),
		))
	defer span.End()

	var request storage.EvaluationRequestMessage
	if err := json.Unmarshal(body, &request); err != nil {
		// 格式错误的消息无法重试，确认后丢弃
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		logger.Warn().Err(err).Str("body", tracing.TruncateString(string(body), tracing.DefaultMaxLength)).Msg("评估请求消息格式错误，已丢弃")
		return true
	}
	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("ats.request_id", request.RequestID))

	evalCtx, cancel := context.WithTimeout(processor.WithRequestID(ctx, request.RequestID), c.timeout)
	defer cancel()

	result := c.evaluate(evalCtx, request)

	routingKey := request.ReplyRoutingKey
	if routingKey == "" {
		routingKey = c.cfg.ResultRoutingKey
	}
	if err := c.publisher.PublishJSON(ctx, c.cfg.EvaluationExchange, routingKey, result, true); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		tracing.RecordRabbitMQNack(span, request.RequestID, "publish result failed")
		logger.Error().Err(err).Str("request_id", request.RequestID).Str("routing_key", routingKey).Msg("发布评估结果失败")
		return false
	}

	logger.Info().
		Str("request_id", request.RequestID).
		Str("status", result.Status).
		Float64("score", result.Score).
		Str("routing_key", routingKey).
		Msg("评估结果已发布")
	return true
}

func (c *EvaluationConsumer) evaluate(ctx context.Context, request storage.EvaluationRequestMessage) storage.EvaluationResultMessage {
	jd := processor.JobDescriptionInput{
		Text:  request.JobDescription,
		JobID: request.JobID,
		URL:   request.JobURL,
	}

	var (
		evaluation *processor.Evaluation
		err        error
	)
	if strings.TrimSpace(request.ResumeObjectKey) != "" {
		evaluation, err = c.evaluator.EvaluateStoredResume(ctx, request.ResumeObjectKey, jd)
	} else {
		evaluation, err = c.evaluator.EvaluateText(ctx, request.ResumeText, jd)
	}

	result := storage.EvaluationResultMessage{
		RequestID:   request.RequestID,
		CompletedAt: time.Now().UTC(),
	}
	if err != nil {
		result.Status = storage.EvaluationStatusFailed
		result.Error = processor.PublicMessage(err)
		result.ErrorCode = processor.ErrorCode(err)
		return result
	}

	result.Status = storage.EvaluationStatusCompleted
	result.Score = evaluation.Score
	result.Verdict = evaluation.Verdict.String()
	result.MatchedKeywords = evaluation.MatchedKeywords
	result.MissingKeywords = evaluation.MissingKeywords
	result.ResumeKeywordCount = evaluation.ResumeKeywordCount
	result.JobKeywordCount = evaluation.JobKeywordCount
	return result
}
