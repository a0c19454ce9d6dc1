package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ats-filter-go/internal/config"
	"ats-filter-go/internal/constants"
	"ats-filter-go/internal/tracing"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned when a key is not found in Redis.
var ErrNotFound = redis.Nil

var redisTracer = otel.Tracer("ats-filter-go/storage/redis")

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter creates a new Redis client connection
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		// 重试设置
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	r := &Redis{Client: client, config: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return r, nil
}

// NewRedisFromClient 使用已有的客户端构造，便于测试注入
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{Client: client, config: &config.RedisConfig{}}
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// Get 获取键的值，键不存在时返回 ErrNotFound
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis客户端未初始化")
	}

	ctx, span := redisTracer.Start(ctx, "Redis.Get", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "GET"),
		attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
	)

	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		// key 不存在不算错误
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.Bool("db.redis.key_exists", false))
			span.SetStatus(codes.Ok, "key not found")
			return "", ErrNotFound
		}
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return "", err
	}

	span.SetAttributes(
		attribute.Bool("db.redis.key_exists", true),
		attribute.Int("db.redis.value_length", len(val)),
	)
	return val, nil
}

// Set 设置键的值
func (r *Redis) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	ctx, span := redisTracer.Start(ctx, "Redis.Set", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", "SET"),
		attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
		attribute.Int("db.redis.value_length", len(value)),
	)
	if expiration > 0 {
		span.SetAttributes(attribute.Int64("db.redis.expiration_ms", expiration.Milliseconds()))
	}

	if err := r.Client.Set(ctx, key, value, expiration).Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return err
	}
	return nil
}

// GetCachedJDText 读取按岗位ID缓存的JD文本
func (r *Redis) GetCachedJDText(ctx context.Context, jobID string) (string, error) {
	return r.Get(ctx, fmt.Sprintf(constants.KeyJobDescriptionText, jobID))
}

// SetCachedJDText 缓存岗位JD文本
func (r *Redis) SetCachedJDText(ctx context.Context, jobID, text string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = constants.JDCacheDuration
	}
	return r.Set(ctx, fmt.Sprintf(constants.KeyJobDescriptionText, jobID), text, ttl)
}

// GetCachedURLText 读取按 URL 抓取并缓存的JD文本，urlHash 为 URL 的 MD5
func (r *Redis) GetCachedURLText(ctx context.Context, urlHash string) (string, error) {
	return r.Get(ctx, fmt.Sprintf(constants.KeyJobDescriptionURL, urlHash))
}

// SetCachedURLText 缓存按 URL 抓取的JD文本
func (r *Redis) SetCachedURLText(ctx context.Context, urlHash, text string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = constants.JDCacheDuration
	}
	return r.Set(ctx, fmt.Sprintf(constants.KeyJobDescriptionURL, urlHash), text, ttl)
}

// LoadStopWords 实现 stopwords.Source，从 SET app:stopwords:set:{language} 读取
func (r *Redis) LoadStopWords(ctx context.Context, language string) ([]string, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis客户端未初始化")
	}
	key := fmt.Sprintf(constants.KeyStopWordSet, strings.ToLower(language))
	words, err := r.Client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("读取停用词集合 %s 失败: %w", key, err)
	}
	return words, nil
}

// SeedStopWords 用给定列表整体替换某语言的停用词集合
func (r *Redis) SeedStopWords(ctx context.Context, language string, words []string) (int, error) {
	if r.Client == nil {
		return 0, fmt.Errorf("redis客户端未初始化")
	}
	if len(words) == 0 {
		return 0, fmt.Errorf("停用词列表为空")
	}

	key := fmt.Sprintf(constants.KeyStopWordSet, strings.ToLower(language))
	members := make([]interface{}, 0, len(words))
	for _, w := range words {
		members = append(members, w)
	}

	var added *redis.IntCmd
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		added = pipe.SAdd(ctx, key, members...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("写入停用词集合 %s 失败: %w", key, err)
	}
	return int(added.Val()), nil
}
