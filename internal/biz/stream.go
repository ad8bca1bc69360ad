package biz

import (
	"context"
	"regexp"
	"sync"
	"time"

	"fastrand/internal/conf"
	"fastrand/pkg/random"

	"github.com/cespare/xxhash/v2"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

var (
	ErrStreamNotFound    = errors.NotFound("STREAM_NOT_FOUND", "stream not found")
	ErrStreamExists      = errors.Conflict("STREAM_EXISTS", "stream already exists")
	ErrInvalidStreamName = errors.BadRequest("INVALID_STREAM_NAME", "stream name must match [A-Za-z0-9_.:-]{1,64}")
	ErrStreamConflict    = errors.Conflict("STREAM_CONFLICT", "stream was modified concurrently")
)

var streamNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)

// Stream 一个具名、持久化的生成器
// State 是生成器当前的状态字，从它恢复的生成器会继续同一条序列
type Stream struct {
	Name      string
	Seed      uint64 // 创建或最近一次重新播种时的种子
	State     uint64 // 当前状态字
	Draws     uint64 // 已执行的取数操作次数
	Revision  uint64 // 检查点版本，每次写回加一
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Generator 从当前状态恢复生成器
func (s *Stream) Generator() *random.Generator {
	return random.WithSeed(s.State)
}

// StreamRepo 流的持久化
//
// Save 与 Fork 是条件写：只有存储中的 Revision 仍等于读到的 Revision 才会写入，
// 成功后 stream.Revision 加一；存储已被其他写者推进时返回 ErrStreamConflict。
type StreamRepo interface {
	// Get 不存在时返回 ErrStreamNotFound
	Get(ctx context.Context, name string) (*Stream, error)
	// Create 已存在时返回 ErrStreamExists
	Create(ctx context.Context, stream *Stream) error
	// Save 更新状态字、种子与计数，不存在时返回 ErrStreamNotFound
	Save(ctx context.Context, stream *Stream) error
	// Fork 在同一个事务里写回父流并创建子流，子流已存在时两者都不变
	Fork(ctx context.Context, parent, child *Stream) error
	Delete(ctx context.Context, name string) error
}

// StreamEventType 流生命周期事件类型
type StreamEventType string

const (
	StreamCreated  StreamEventType = "STREAM_CREATED"
	StreamReseeded StreamEventType = "STREAM_RESEEDED"
	StreamForked   StreamEventType = "STREAM_FORKED"
	StreamDeleted  StreamEventType = "STREAM_DELETED"
)

// StreamEvent 发布到消息队列的事件
type StreamEvent struct {
	Type   StreamEventType
	Stream Stream
	Parent string // 仅 StreamForked：派生来源
	At     time.Time
}

// StreamEventPublisher 事件发布器
type StreamEventPublisher interface {
	PublishStreamEvent(ctx context.Context, event StreamEvent) error
}

const (
	lockStripes = 64
	// 写回冲突时重新读取检查点的次数上限
	saveAttempts = 3
)

// StreamUsecase 管理具名流。同一个流上的操作串行执行：
// 读取检查点、恢复生成器、执行、写回检查点。
type StreamUsecase struct {
	repo  StreamRepo
	pub   StreamEventPublisher
	rng   *random.Local
	locks [lockStripes]sync.Mutex
	log   *log.Helper
}

// NewStreamUsecase 创建流用例；配置了种子时进程生成器按该种子播种
func NewStreamUsecase(repo StreamRepo, pub StreamEventPublisher, c *conf.Random, logger log.Logger) *StreamUsecase {
	uc := &StreamUsecase{
		repo: repo,
		pub:  pub,
		rng:  random.NewLocal(random.WithLogger(logger)),
		log:  log.NewHelper(log.With(logger, "module", "biz/stream")),
	}
	if seed := c.GetSeed(); seed != 0 {
		uc.rng.Seed(seed)
		uc.log.Infof("process generator seeded from config: seed=%#x", seed)
	}
	return uc
}

// lock 返回名字所在分片的锁
func (uc *StreamUsecase) lock(name string) *sync.Mutex {
	return &uc.locks[xxhash.Sum64String(name)%lockStripes]
}

// lockPair 按分片顺序加两把锁，同一分片只加一次
func (uc *StreamUsecase) lockPair(a, b string) func() {
	i := xxhash.Sum64String(a) % lockStripes
	j := xxhash.Sum64String(b) % lockStripes
	if i > j {
		i, j = j, i
	}
	uc.locks[i].Lock()
	if i == j {
		return uc.locks[i].Unlock
	}
	uc.locks[j].Lock()
	return func() {
		uc.locks[j].Unlock()
		uc.locks[i].Unlock()
	}
}

func validName(name string) error {
	if !streamNamePattern.MatchString(name) {
		return ErrInvalidStreamName.WithMetadata(map[string]string{"name": name})
	}
	return nil
}

// Create 创建流；seed 为 nil 时从进程生成器取一个种子
func (uc *StreamUsecase) Create(ctx context.Context, name string, seed *uint64) (*Stream, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	var s uint64
	if seed != nil {
		s = *seed
	} else {
		s = uc.rng.Uint64()
	}

	now := time.Now()
	stream := &Stream{Name: name, Seed: s, State: s, CreatedAt: now, UpdatedAt: now}

	mu := uc.lock(name)
	mu.Lock()
	defer mu.Unlock()

	if err := uc.repo.Create(ctx, stream); err != nil {
		return nil, err
	}
	uc.log.Infof("stream created: name=%s seed=%#x", name, s)
	uc.publish(ctx, StreamEvent{Type: StreamCreated, Stream: *stream})
	return stream, nil
}

// Get 查询流
func (uc *StreamUsecase) Get(ctx context.Context, name string) (*Stream, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return uc.repo.Get(ctx, name)
}

// Delete 删除流
func (uc *StreamUsecase) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	mu := uc.lock(name)
	mu.Lock()
	defer mu.Unlock()

	stream, err := uc.repo.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, name); err != nil {
		return err
	}
	uc.log.Infof("stream deleted: name=%s draws=%d", name, stream.Draws)
	uc.publish(ctx, StreamEvent{Type: StreamDeleted, Stream: *stream})
	return nil
}

// Reseed 重新播种，之后的输出与用 seed 新建的流相同
func (uc *StreamUsecase) Reseed(ctx context.Context, name string, seed uint64) (*Stream, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	mu := uc.lock(name)
	mu.Lock()
	defer mu.Unlock()

	var stream *Stream
	err := retryOnConflict(func() (err error) {
		if stream, err = uc.repo.Get(ctx, name); err != nil {
			return err
		}
		stream.Seed = seed
		stream.State = seed
		stream.UpdatedAt = time.Now()
		return uc.repo.Save(ctx, stream)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Infof("stream reseeded: name=%s seed=%#x", name, seed)
	uc.publish(ctx, StreamEvent{Type: StreamReseeded, Stream: *stream})
	return stream, nil
}

// Fork 从 name 派生子流 child：子流种子是父流的下一个 64 位输出，父流前进一步。
// 两者在同一个事务里写入；child 已存在时父流保持不变。
func (uc *StreamUsecase) Fork(ctx context.Context, name, child string) (parent *Stream, forked *Stream, err error) {
	if err := validName(name); err != nil {
		return nil, nil, err
	}
	if err := validName(child); err != nil {
		return nil, nil, err
	}
	if name == child {
		return nil, nil, ErrStreamExists.WithMetadata(map[string]string{"name": child})
	}
	unlock := uc.lockPair(name, child)
	defer unlock()

	err = retryOnConflict(func() (err error) {
		if parent, err = uc.repo.Get(ctx, name); err != nil {
			return err
		}
		g := parent.Generator()
		seed := g.Fork().GetSeed()

		now := time.Now()
		forked = &Stream{Name: child, Seed: seed, State: seed, CreatedAt: now, UpdatedAt: now}
		parent.State = g.GetSeed()
		parent.Draws++
		parent.UpdatedAt = now
		return uc.repo.Fork(ctx, parent, forked)
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Infof("stream forked: parent=%s child=%s seed=%#x", name, child, forked.Seed)
	uc.publish(ctx, StreamEvent{Type: StreamForked, Stream: *forked, Parent: name})
	return parent, forked, nil
}

// Draw 在流的生成器上执行 fn 并写回状态。
// fn 返回错误时不写回，流保持原状。写回冲突时从最新检查点重新执行 fn，
// 因此 fn 只能通过 g 产生结果，不能依赖上一次执行留下的副作用。
func (uc *StreamUsecase) Draw(ctx context.Context, name string, fn func(g *random.Generator) error) (*Stream, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	mu := uc.lock(name)
	mu.Lock()
	defer mu.Unlock()

	var stream *Stream
	err := retryOnConflict(func() (err error) {
		if stream, err = uc.repo.Get(ctx, name); err != nil {
			return err
		}
		g := stream.Generator()
		if err := fn(g); err != nil {
			return err
		}
		stream.State = g.GetSeed()
		stream.Draws++
		stream.UpdatedAt = time.Now()
		return uc.repo.Save(ctx, stream)
	})
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// retryOnConflict 在 ErrStreamConflict 时重新执行 op，最多 saveAttempts 次
func retryOnConflict(op func() error) error {
	var err error
	for i := 0; i < saveAttempts; i++ {
		if err = op(); !errors.Is(err, ErrStreamConflict) {
			return err
		}
	}
	return err
}

// publish 事件发布失败只记录日志，不影响已经持久化的结果
func (uc *StreamUsecase) publish(ctx context.Context, event StreamEvent) {
	if uc.pub == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	if err := uc.pub.PublishStreamEvent(ctx, event); err != nil {
		uc.log.Warnf("publish stream event failed: type=%s name=%s err=%v", event.Type, event.Stream.Name, err)
	}
}
