package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ats-filter-go/internal/config"
	"ats-filter-go/internal/logger"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var errNoChannel = errors.New("无法获取RabbitMQ通道")

// RabbitMQ 评估请求与结果所用的消息队列客户端。
// 发布使用通道池，消费者各自持有独立通道。
type RabbitMQ struct {
	conn     *amqp.Connection
	channels sync.Pool
	cfg      *config.RabbitMQConfig

	mu       sync.Mutex
	declared map[string]struct{} // 已声明的 exchange/queue/binding

	publishMu sync.Mutex
}

// NewRabbitMQ 连接 RabbitMQ 并验证能打开通道
func NewRabbitMQ(cfg *config.RabbitMQConfig) (*RabbitMQ, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器: %w", err)
	}

	r := &RabbitMQ{
		conn:     conn,
		cfg:      cfg,
		declared: make(map[string]struct{}),
	}
	r.channels.New = func() interface{} {
		ch, err := conn.Channel()
		if err != nil {
			logger.Error().Err(err).Msg("创建RabbitMQ通道失败")
			return nil
		}
		return ch
	}

	if err := r.withChannel(func(*amqp.Channel) error { return nil }); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info().Str("exchange", cfg.EvaluationExchange).Str("queue", cfg.EvaluationQueue).Msg("成功连接到RabbitMQ服务器")
	return r, nil
}

// withChannel 从池中取一个可用通道执行 fn，结束后归还
func (r *RabbitMQ) withChannel(fn func(ch *amqp.Channel) error) error {
	ch, _ := r.channels.Get().(*amqp.Channel)
	if ch == nil || ch.IsClosed() {
		var err error
		if ch, err = r.conn.Channel(); err != nil {
			return fmt.Errorf("%w: %v", errNoChannel, err)
		}
	}
	defer func() {
		if !ch.IsClosed() {
			r.channels.Put(ch)
		}
	}()
	return fn(ch)
}

// declareOnce 同一 key 只声明一次；声明失败不记录，下次重试
func (r *RabbitMQ) declareOnce(key string, declare func(ch *amqp.Channel) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.declared[key]; ok {
		return nil
	}
	if err := r.withChannel(declare); err != nil {
		return err
	}
	r.declared[key] = struct{}{}
	return nil
}

// Close 关闭连接，消费者通道随之关闭
func (r *RabbitMQ) Close() error {
	return r.conn.Close()
}

// SetupEvaluationTopology 声明评估请求所需的 direct 交换机、持久队列和绑定
func (r *RabbitMQ) SetupEvaluationTopology() error {
	if err := r.EnsureExchange(r.cfg.EvaluationExchange, amqp.ExchangeDirect); err != nil {
		return err
	}
	if err := r.EnsureQueue(r.cfg.EvaluationQueue); err != nil {
		return err
	}
	return r.BindQueue(r.cfg.EvaluationQueue, r.cfg.EvaluationExchange, r.cfg.RequestRoutingKey)
}

// EnsureExchange 声明持久交换机
func (r *RabbitMQ) EnsureExchange(name, kind string) error {
	if name == "" || name == "amq.default" {
		return fmt.Errorf("无效的exchange名称: %q", name)
	}
	return r.declareOnce("exchange:"+name, func(ch *amqp.Channel) error {
		if err := ch.ExchangeDeclare(name, kind, true, false, false, false, nil); err != nil {
			return fmt.Errorf("声明exchange %s 失败: %w", name, err)
		}
		logger.Debug().Str("exchange", name).Str("type", kind).Msg("已声明exchange")
		return nil
	})
}

// EnsureQueue 声明持久队列
func (r *RabbitMQ) EnsureQueue(name string) error {
	if name == "" {
		return fmt.Errorf("队列名称不能为空")
	}
	return r.declareOnce("queue:"+name, func(ch *amqp.Channel) error {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("声明队列 %s 失败: %w", name, err)
		}
		logger.Debug().Str("queue", name).Msg("已声明队列")
		return nil
	})
}

// BindQueue 按路由键把队列绑定到交换机
func (r *RabbitMQ) BindQueue(queue, exchange, routingKey string) error {
	key := fmt.Sprintf("binding:%s:%s:%s", exchange, queue, routingKey)
	return r.declareOnce(key, func(ch *amqp.Channel) error {
		if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("绑定队列 %s 到 %s 失败: %w", queue, exchange, err)
		}
		logger.Info().Str("queue", queue).Str("exchange", exchange).Str("routing_key", routingKey).Msg("已绑定队列")
		return nil
	})
}

// PublishJSON 序列化后发布，persistent 为 true 时消息落盘
func (r *RabbitMQ) PublishJSON(ctx context.Context, exchange, routingKey string, data interface{}, persistent bool) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("JSON序列化失败: %w", err)
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Transient,
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	}
	if persistent {
		msg.DeliveryMode = amqp.Persistent
	}

	r.publishMu.Lock()
	defer r.publishMu.Unlock()
	return r.withChannel(func(ch *amqp.Channel) error {
		return ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
	})
}

// DeliveryHandler 处理一条消息，返回 true 表示确认，false 表示拒绝
type DeliveryHandler func(ctx context.Context, body []byte) bool

// StartConsumer 启动 workers 个协程消费队列，ctx 取消时停止。
// 处理失败的消息按 requeue 决定是否重新入队；返回的通道在所有协程退出后关闭。
func (r *RabbitMQ) StartConsumer(ctx context.Context, queue string, prefetch, workers int, requeue bool, handler DeliveryHandler) (<-chan struct{}, error) {
	if workers <= 0 {
		workers = 1
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoChannel, err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("设置QoS失败: %w", err)
	}
	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("注册消费者失败: %w", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consume(ctx, queue, workerID, deliveries, requeue, handler)
		}(i)
	}

	go func() {
		wg.Wait()
		ch.Close()
		logger.Info().Str("queue", queue).Msg("RabbitMQ消费者已停止")
		close(done)
	}()

	logger.Info().Str("queue", queue).Int("prefetch", prefetch).Int("workers", workers).Msg("RabbitMQ消费者已启动")
	return done, nil
}

func consume(ctx context.Context, queue string, workerID int, deliveries <-chan amqp.Delivery, requeue bool, handler DeliveryHandler) {
	log := logger.Logger.With().Str("queue", queue).Int("worker", workerID).Logger()
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				log.Warn().Msg("RabbitMQ投递通道已关闭")
				return
			}
			var err error
			if handler(ctx, d.Body) {
				err = d.Ack(false)
			} else {
				err = d.Nack(false, requeue)
			}
			if err != nil {
				log.Error().Err(err).Uint64("delivery_tag", d.DeliveryTag).Msg("确认或拒绝消息失败")
			}
		}
	}
}
