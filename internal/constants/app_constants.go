package constants

import "time"

const (
	// ServiceName 服务名，用于日志与链路追踪
	ServiceName = "ats-filter-go"

	// APIKeyHeader 请求头中的 API Key
	APIKeyHeader = "X-API-Key"

	JDCacheDuration         = 24 * time.Hour
	DefaultExtractTimeout   = 30 * time.Second
	DefaultMessageTimeout   = 60 * time.Second
	DefaultShutdownTimeout  = 5 * time.Second
	DefaultMaxUploadBytes   = 10 << 20
	DefaultJDFetchMaxBytes  = 2 << 20
	DefaultJDFetchRateLimit = 2
)
