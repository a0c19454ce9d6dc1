package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorType 写入 span 的 error.type，按依赖来源分类
type ErrorType string

const (
	ErrorTypeHTTP       ErrorType = "http"
	ErrorTypeDB         ErrorType = "db"
	ErrorTypeRedis      ErrorType = "redis"
	ErrorTypeRabbitMQ   ErrorType = "rabbitmq"
	ErrorTypeMinIO      ErrorType = "minio"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeExternal   ErrorType = "external_system"
	ErrorTypeInternal   ErrorType = "internal"
)

// RecordError 记录错误并把 span 状态置为 Error
func RecordError(span trace.Span, err error, errorType ErrorType) {
	RecordErrorWithInfo(span, err, errorType)
}

// RecordErrorWithInfo 同 RecordError，附带额外属性
func RecordErrorWithInfo(span trace.Span, err error, errorType ErrorType, attributes ...attribute.KeyValue) {
	if span == nil || err == nil {
		return
	}

	span.RecordError(err)
	span.SetAttributes(
		attribute.String("error.type", string(errorType)),
		attribute.String("error.message", TruncateString(err.Error(), DefaultMaxLength)),
	)
	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}
	span.SetStatus(codes.Error, err.Error())
}

// RecordHTTPError 记录接口返回的错误，4xx 记为 client_error，5xx 记为 server_error
func RecordHTTPError(span trace.Span, err error, statusCode int, errorCode string) {
	if span == nil || err == nil {
		return
	}

	category := "server_error"
	if statusCode >= 400 && statusCode < 500 {
		category = "client_error"
	}
	span.RecordError(err)
	span.SetAttributes(
		attribute.String("error.type", string(ErrorTypeHTTP)),
		attribute.String("error.category", category),
		attribute.String("error.code", errorCode),
		attribute.Int("http.status_code", statusCode),
	)
	// 4xx 是调用方的问题，不把服务端 span 标记为失败
	if category == "server_error" {
		span.SetStatus(codes.Error, err.Error())
	}
}

// RecordRabbitMQNack 记录被拒绝且不重新入队的消息
func RecordRabbitMQNack(span trace.Span, messageID string, reason string) {
	if span == nil {
		return
	}

	if reason == "" {
		reason = "message rejected"
	}
	span.SetAttributes(
		attribute.String("error.type", string(ErrorTypeRabbitMQ)),
		attribute.String("error.message", reason),
		attribute.String("messaging.message_id", messageID),
		attribute.String("messaging.operation", "reject"),
		attribute.Bool("messaging.requeue", false),
	)
	span.SetStatus(codes.Error, reason)
}
