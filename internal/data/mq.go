package data

import (
	"context"
	"strconv"

	"fastrand/internal/biz"
	"fastrand/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// 流事件的 routing key
const routingKeyStreamEvent = "stream.event"

// mqPublisher MQ 发布器实现
type mqPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *log.Helper
}

// NewMQPublisher 创建 MQ 发布器，未配置或连接失败时退化为空实现
func NewMQPublisher(c *conf.Data, logger log.Logger) (biz.StreamEventPublisher, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "data/mq"))

	if c.GetRabbitmq().GetUrl() == "" {
		helper.Warn("rabbitmq config not found, mq publisher disabled")
		return &noopMQPublisher{log: helper}, func() {}, nil
	}
	mq := c.GetRabbitmq()

	// 连接 RabbitMQ
	conn, err := amqp.Dial(mq.GetUrl())
	if err != nil {
		helper.Warnf("failed to connect rabbitmq: %v, using noop publisher", err)
		return &noopMQPublisher{log: helper}, func() {}, nil
	}

	// 创建 Channel
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		helper.Warnf("failed to open channel: %v, using noop publisher", err)
		return &noopMQPublisher{log: helper}, func() {}, nil
	}

	// 声明 Direct Exchange
	err = ch.ExchangeDeclare(
		mq.GetExchange(), // exchange name
		"direct",         // type
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		helper.Warnf("failed to declare exchange: %v, using noop publisher", err)
		return &noopMQPublisher{log: helper}, func() {}, nil
	}

	// 配置了队列时声明并绑定，未配置时由消费方自行绑定
	if mq.GetQueue() != "" {
		if _, err = ch.QueueDeclare(mq.GetQueue(), true, false, false, false, nil); err == nil {
			err = ch.QueueBind(mq.GetQueue(), routingKeyStreamEvent, mq.GetExchange(), false, nil)
		}
		if err != nil {
			ch.Close()
			conn.Close()
			helper.Warnf("failed to declare or bind queue: %v, using noop publisher", err)
			return &noopMQPublisher{log: helper}, func() {}, nil
		}
	}

	helper.Infof("rabbitmq connected: exchange=%s queue=%s binding=%s",
		mq.GetExchange(), mq.GetQueue(), routingKeyStreamEvent)

	cleanup := func() {
		if err := ch.Close(); err != nil {
			helper.Errorf("failed to close channel: %v", err)
		}
		if err := conn.Close(); err != nil {
			helper.Errorf("failed to close connection: %v", err)
		}
		helper.Info("rabbitmq connection closed")
	}

	return &mqPublisher{
		conn:     conn,
		channel:  ch,
		exchange: mq.GetExchange(),
		log:      helper,
	}, cleanup, nil
}

// encodeStreamEvent 把事件编码为 protobuf Struct。
// 64 位的种子和状态以 16 进制字符串传输，避免 Struct 数值的精度损失。
func encodeStreamEvent(e biz.StreamEvent) ([]byte, error) {
	ts := timestamppb.New(e.At)
	if err := ts.CheckValid(); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"type":  string(e.Type),
		"name":  e.Stream.Name,
		"seed":  strconv.FormatUint(e.Stream.Seed, 16),
		"state": strconv.FormatUint(e.Stream.State, 16),
		"draws": strconv.FormatUint(e.Stream.Draws, 10),
		"timestamp": map[string]any{
			"seconds": ts.GetSeconds(),
			"nanos":   ts.GetNanos(),
		},
	}
	if e.Parent != "" {
		fields["parent"] = e.Parent
	}
	body, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(body)
}

// PublishStreamEvent 发布流事件
func (p *mqPublisher) PublishStreamEvent(ctx context.Context, e biz.StreamEvent) error {
	body, err := encodeStreamEvent(e)
	if err != nil {
		p.log.Errorf("marshal event failed: %v", err)
		return err
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKeyStreamEvent,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/x-protobuf",
			Type:         string(e.Type),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.At,
		},
	)
	if err != nil {
		p.log.Errorf("publish message failed: type=%s name=%s err=%v", e.Type, e.Stream.Name, err)
		return err
	}
	p.log.Debugf("event published: type=%s name=%s size=%d", e.Type, e.Stream.Name, len(body))
	return nil
}

// noopMQPublisher 空实现（当 RabbitMQ 未配置或连接失败时使用）
type noopMQPublisher struct {
	log *log.Helper
}

func (p *noopMQPublisher) PublishStreamEvent(ctx context.Context, e biz.StreamEvent) error {
	if p.log != nil {
		p.log.Debugf("mq publisher not available, skipping event: type=%s name=%s", e.Type, e.Stream.Name)
	}
	return nil
}
