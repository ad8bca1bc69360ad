package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"fastrand/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/redis/go-redis/v9"
)

// RedisServer Redis 客户端包装，随应用启动和停止
type RedisServer struct {
	client *redis.Client
	log    *log.Helper
}

var _ transport.Server = (*RedisServer)(nil)

// NewRedisServer 创建 Redis 服务器实例，未配置或连接失败时返回 nil
func NewRedisServer(c *conf.Data, logger log.Logger) *RedisServer {
	helper := log.NewHelper(log.With(logger, "module", "server/redis"))

	if c.GetRedis().GetAddr() == "" {
		helper.Warn("redis configuration is missing, redis server not initialized")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Network:      c.GetRedis().GetNetwork(),
		Addr:         c.GetRedis().GetAddr(),
		Password:     c.GetRedis().GetPassword(),
		DB:           int(c.GetRedis().GetDb()),
		ReadTimeout:  c.GetRedis().GetReadTimeout().AsDuration(),
		WriteTimeout: c.GetRedis().GetWriteTimeout().AsDuration(),
	})

	// 测试连接
	if err := client.Ping(context.Background()).Err(); err != nil {
		helper.Errorf("failed to connect to redis: %v", err)
		_ = client.Close()
		return nil
	}

	helper.Info("redis client initialized successfully")
	return &RedisServer{
		client: client,
		log:    helper,
	}
}

// Start 实现 Kratos Server 接口
func (s *RedisServer) Start(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	s.log.Info("redis server started")
	return nil
}

// Stop 关闭客户端
func (s *RedisServer) Stop(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	s.log.Info("redis server stopping")
	return s.client.Close()
}

// Client 获取 Redis 客户端
func (s *RedisServer) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.client
}

// ============================================================================
// Reseed Stream Server 重新播种消息消费
// ============================================================================

// ReseedHandler 重新播种消息处理器
type ReseedHandler interface {
	// HandleReseed 返回 nil 时消息被确认，否则留在 pending 列表等待重新认领
	HandleReseed(ctx context.Context, msgID string, name string, seed uint64) error
}

// ReseedStreamServer 消费 Redis Stream 中的 {name, seed} 消息
type ReseedStreamServer struct {
	rdb       *redis.Client
	stream    string
	group     string
	consumer  string
	block     time.Duration
	count     int64
	claimIdle time.Duration
	handler   ReseedHandler
	log       *log.Helper
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

var _ transport.Server = (*ReseedStreamServer)(nil)

// NewReseedStreamServer 创建重新播种消费服务器
func NewReseedStreamServer(rdb *redis.Client, c *conf.Random, handler ReseedHandler, logger log.Logger) *ReseedStreamServer {
	host, _ := os.Hostname()
	return &ReseedStreamServer{
		rdb:       rdb,
		stream:    c.GetReseedStream(),
		group:     c.GetReseedGroup(),
		consumer:  fmt.Sprintf("randd-%s-%d", host, os.Getpid()),
		block:     2 * time.Second,
		count:     128,
		claimIdle: 10 * time.Second, // 10秒后重新认领
		handler:   handler,
		log:       log.NewHelper(log.With(logger, "module", "server/reseed")),
	}
}

func (s *ReseedStreamServer) Start(ctx context.Context) error {
	if s.handler == nil {
		return fmt.Errorf("reseed handler is nil")
	}

	// 确保消费者组存在
	if err := s.ensureGroup(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// 启动消费循环
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.consumeLoop(runCtx)
	}()

	// 启动重新认领循环
	if s.claimIdle > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.reclaimLoop(runCtx)
		}()
	}

	s.log.Infof("reseed stream server started: stream=%s group=%s consumer=%s", s.stream, s.group, s.consumer)
	return nil
}

func (s *ReseedStreamServer) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-done:
		s.log.Info("reseed stream server stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ensureGroup 确保消费者组存在，MKSTREAM 会在 Stream 不存在时创建它
func (s *ReseedStreamServer) ensureGroup(ctx context.Context) error {
	err := s.rdb.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			s.log.Infof("consumer group already exists: stream=%s group=%s", s.stream, s.group)
			return nil
		}
		s.log.Errorf("failed to create consumer group: %v", err)
		return err
	}
	s.log.Infof("consumer group created: stream=%s group=%s", s.stream, s.group)
	return nil
}

// parseReseed 解析消息中的 name 与 seed，seed 接受十进制或 0x 前缀的十六进制
func parseReseed(values map[string]interface{}) (name string, seed uint64, err error) {
	name = fmt.Sprint(values["name"])
	if name == "" || name == "<nil>" {
		return "", 0, fmt.Errorf("missing name field")
	}
	raw, ok := values["seed"]
	if !ok {
		return "", 0, fmt.Errorf("missing seed field")
	}
	seed, err = strconv.ParseUint(fmt.Sprint(raw), 0, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid seed %q: %w", raw, err)
	}
	return name, seed, nil
}

// handle 处理一条消息，成功或消息格式错误时确认
func (s *ReseedStreamServer) handle(ctx context.Context, msg redis.XMessage) {
	name, seed, err := parseReseed(msg.Values)
	if err != nil {
		s.log.Warnf("drop malformed message: msgID=%s values=%v err=%v", msg.ID, msg.Values, err)
	} else if err := s.handler.HandleReseed(ctx, msg.ID, name, seed); err != nil {
		s.log.Errorf("handle failed, keep pending: msgID=%s name=%s err=%v", msg.ID, name, err)
		return
	}

	if _, err := s.rdb.XAck(ctx, s.stream, s.group, msg.ID).Result(); err != nil {
		s.log.Errorf("XAck failed: msgID=%s err=%v", msg.ID, err)
	}
}

// consumeLoop 消费循环
func (s *ReseedStreamServer) consumeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := s.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.group,
			Consumer: s.consumer,
			Streams:  []string{s.stream, ">"},
			Count:    s.count,
			Block:    s.block,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			s.log.Errorf("XReadGroup error: %v", err)
			time.Sleep(200 * time.Millisecond)
			continue
		}

		for _, strm := range res {
			for _, msg := range strm.Messages {
				s.handle(ctx, msg)
			}
		}
	}
}

// reclaimLoop 重新认领超时消息
func (s *ReseedStreamServer) reclaimLoop(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	start := "0-0"
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		msgs, next, err := s.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   s.stream,
			Group:    s.group,
			Consumer: s.consumer,
			MinIdle:  s.claimIdle,
			Start:    start,
			Count:    s.count,
		}).Result()

		if err != nil && !errors.Is(err, redis.Nil) {
			s.log.Errorf("XAutoClaim error: %v", err)
			continue
		}

		start = next
		if len(msgs) == 0 {
			start = "0-0"
			continue
		}

		for _, msg := range msgs {
			s.handle(ctx, msg)
		}
	}
}
