package processor

import (
	"log"
	"time"
)

// JDOption 定义了 JDProcessor 的配置选项函数类型。
type JDOption func(*JDProcessor)

// WithJDCache 设置 JD 文本缓存（通常是 Redis）。
func WithJDCache(cache JDTextCache) JDOption {
	return func(p *JDProcessor) {
		p.cache = cache
	}
}

// WithJobStore 设置按岗位ID查询 JD 的数据源（通常是 MySQL）。
func WithJobStore(store JobStore) JDOption {
	return func(p *JDProcessor) {
		p.store = store
	}
}

// WithPageFetcher 设置按 URL 抓取 JD 的抓取器，未设置时不支持 job_url。
func WithPageFetcher(fetcher PageFetcher) JDOption {
	return func(p *JDProcessor) {
		p.fetcher = fetcher
	}
}

// WithJDCacheTTL 设置 JD 文本的缓存时间。
func WithJDCacheTTL(ttl time.Duration) JDOption {
	return func(p *JDProcessor) {
		p.cacheTTL = ttl
	}
}

// WithJDProcessorLogger 设置 JDProcessor 使用的日志记录器。
func WithJDProcessorLogger(logger *log.Logger) JDOption {
	return func(p *JDProcessor) {
		if logger != nil {
			p.logger = logger
		}
	}
}
