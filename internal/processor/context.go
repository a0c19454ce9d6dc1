package processor

import "context"

type requestIDKey struct{}

// WithRequestID 把请求ID放入上下文，错误和日志会带上它
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext 取出请求ID，没有时返回空字符串
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
