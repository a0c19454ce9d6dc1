package storage

import (
	"context"
	"io"
	"log"

	"ats-filter-go/internal/config"
	"ats-filter-go/internal/logger"
)

// Storage 存储管理器，聚合所有可选的外部依赖。
// 任一组件未配置或初始化失败时对应字段为 nil，调用方按需降级。
type Storage struct {
	// 对象存储，按对象键评估简历
	MinIO *MinIO

	// 消息队列，异步评估
	RabbitMQ *RabbitMQ

	// 关系型数据库，岗位JD与停用词配置
	MySQL *MySQL

	// 键值存储，JD缓存与停用词集合
	Redis *Redis
}

// NewStorage 按配置初始化各存储组件，单个组件失败只记录警告
func NewStorage(ctx context.Context, cfg *config.Config) *Storage {
	s := &Storage{}
	if cfg == nil {
		return s
	}

	if cfg.MinIO.Endpoint != "" {
		minioLogger := log.New(io.Discard, "", 0)
		if cfg.Logger.Level == "debug" {
			minioLogger = log.New(&logger.Logger, "[MinIOStorage] ", 0)
		}
		m, err := NewMinIO(&cfg.MinIO, minioLogger)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败，按对象键评估不可用")
		} else {
			s.MinIO = m
			logger.Info().Str("endpoint", cfg.MinIO.Endpoint).Msg("MinIO客户端初始化成功")
		}
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化RabbitMQ失败，异步评估不可用")
		} else {
			s.RabbitMQ = mq
		}
	}

	if cfg.MySQL.Host != "" {
		db, err := NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MySQL失败，按岗位ID评估将只依赖Redis缓存")
		} else {
			s.MySQL = db
		}
	}

	if cfg.Redis.Address != "" {
		r, err := NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败，JD缓存不可用")
		} else {
			s.Redis = r
			logger.Info().Str("address", cfg.Redis.Address).Msg("Redis初始化成功")
		}
	}

	select {
	case <-ctx.Done():
		logger.Warn().Err(ctx.Err()).Msg("存储初始化期间上下文已取消")
	default:
	}
	return s
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s == nil {
		return
	}
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭MySQL连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
	// MinIO 客户端无需显式关闭
}
