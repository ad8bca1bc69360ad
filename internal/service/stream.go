package service

import (
	"context"
	"strconv"
	"time"

	"fastrand/internal/biz"
	"fastrand/pkg/random"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// 单次请求可生成的最大长度
const maxLength = 1 << 16

var ErrLengthTooLarge = errors.BadRequest("LENGTH_TOO_LARGE", "length must be between 0 and 65536")

// StreamService 随机数流服务
type StreamService struct {
	uc  *biz.StreamUsecase
	log *log.Helper
}

// NewStreamService 创建随机数流服务
func NewStreamService(uc *biz.StreamUsecase, logger log.Logger) *StreamService {
	return &StreamService{
		uc:  uc,
		log: log.NewHelper(log.With(logger, "module", "service/stream")),
	}
}

type CreateStreamRequest struct {
	Name string  `json:"name"`
	Seed *uint64 `json:"seed,omitempty"`
}

type StreamReply struct {
	Name      string    `json:"name"`
	Seed      uint64    `json:"seed"`
	State     uint64    `json:"state"`
	Draws     uint64    `json:"draws"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStreamReply(s *biz.Stream) *StreamReply {
	return &StreamReply{
		Name:      s.Name,
		Seed:      s.Seed,
		State:     s.State,
		Draws:     s.Draws,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type SeedRequest struct {
	Seed uint64 `json:"seed"`
}

type ForkRequest struct {
	Child string `json:"child"`
}

type ForkReply struct {
	Parent *StreamReply `json:"parent"`
	Child  *StreamReply `json:"child"`
}

// UintRangeRequest 区间端点，缺省为无界；Inclusive 决定 High 是否可取到
type UintRangeRequest struct {
	Low       *uint64 `json:"low,omitempty"`
	High      *uint64 `json:"high,omitempty"`
	Inclusive bool    `json:"inclusive"`
}

type IntRangeRequest struct {
	Low       *int64 `json:"low,omitempty"`
	High      *int64 `json:"high,omitempty"`
	Inclusive bool   `json:"inclusive"`
}

type DigitRequest struct {
	Base uint32 `json:"base"`
}

type LengthRequest struct {
	Length int `json:"length"`
}

type ItemsRequest struct {
	Items []string `json:"items"`
	K     int      `json:"k"`
}

// DrawReply 取数结果与取数后的流状态
type DrawReply struct {
	Stream *StreamReply `json:"stream"`
	Value  any          `json:"value"`
}

// toRange 把请求端点转换为区间
func toRange[T any](low, high *T, inclusive bool) random.Range[T] {
	var r random.Range[T]
	if low != nil {
		r.Start = random.In(*low)
	}
	if high != nil {
		if inclusive {
			r.End = random.In(*high)
		} else {
			r.End = random.Ex(*high)
		}
	}
	return r
}

func checkLength(n int) error {
	if n < 0 || n > maxLength {
		return ErrLengthTooLarge.WithMetadata(map[string]string{"length": strconv.Itoa(n)})
	}
	return nil
}

// CreateStream 创建流
func (s *StreamService) CreateStream(ctx context.Context, req *CreateStreamRequest) (*StreamReply, error) {
	stream, err := s.uc.Create(ctx, req.Name, req.Seed)
	if err != nil {
		return nil, err
	}
	return toStreamReply(stream), nil
}

// GetStream 查询流
func (s *StreamService) GetStream(ctx context.Context, name string) (*StreamReply, error) {
	stream, err := s.uc.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return toStreamReply(stream), nil
}

// DeleteStream 删除流
func (s *StreamService) DeleteStream(ctx context.Context, name string) error {
	return s.uc.Delete(ctx, name)
}

// Reseed 重新播种
func (s *StreamService) Reseed(ctx context.Context, name string, req *SeedRequest) (*StreamReply, error) {
	stream, err := s.uc.Reseed(ctx, name, req.Seed)
	if err != nil {
		return nil, err
	}
	return toStreamReply(stream), nil
}

// Fork 派生子流
func (s *StreamService) Fork(ctx context.Context, name string, req *ForkRequest) (*ForkReply, error) {
	parent, child, err := s.uc.Fork(ctx, name, req.Child)
	if err != nil {
		return nil, err
	}
	return &ForkReply{Parent: toStreamReply(parent), Child: toStreamReply(child)}, nil
}

// draw 在流上执行 fn，fn 把结果写入 value
func (s *StreamService) draw(ctx context.Context, name string, fn func(g *random.Generator) (any, error)) (*DrawReply, error) {
	var value any
	stream, err := s.uc.Draw(ctx, name, func(g *random.Generator) error {
		v, err := fn(g)
		value = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return &DrawReply{Stream: toStreamReply(stream), Value: value}, nil
}

// DrawU64 区间内的 uint64
func (s *StreamService) DrawU64(ctx context.Context, name string, req *UintRangeRequest) (*DrawReply, error) {
	r := toRange(req.Low, req.High, req.Inclusive)
	return s.draw(ctx, name, func(g *random.Generator) (any, error) { return g.U64(r) })
}

// DrawI64 区间内的 int64
func (s *StreamService) DrawI64(ctx context.Context, name string, req *IntRangeRequest) (*DrawReply, error) {
	r := toRange(req.Low, req.High, req.Inclusive)
	return s.draw(ctx, name, func(g *random.Generator) (any, error) { return g.I64(r) })
}

// DrawF64 [0, 1) 内的 float64
func (s *StreamService) DrawF64(ctx context.Context, name string) (*DrawReply, error) {
	return s.draw(ctx, name, func(g *random.Generator) (any, error) { return g.F64(), nil })
}

// DrawBool 随机布尔值
func (s *StreamService) DrawBool(ctx context.Context, name string) (*DrawReply, error) {
	return s.draw(ctx, name, func(g *random.Generator) (any, error) { return g.Bool(), nil })
}

// DrawDigit base 进制下的一个数字
func (s *StreamService) DrawDigit(ctx context.Context, name string, req *DigitRequest) (*DrawReply, error) {
	return s.draw(ctx, name, func(g *random.Generator) (any, error) {
		c, err := g.Digit(req.Base)
		if err != nil {
			return nil, err
		}
		return string(c), nil
	})
}

// DrawAlphanumeric 长度为 Length 的字母数字串
func (s *StreamService) DrawAlphanumeric(ctx context.Context, name string, req *LengthRequest) (*DrawReply, error) {
	if err := checkLength(req.Length); err != nil {
		return nil, err
	}
	return s.draw(ctx, name, func(g *random.Generator) (any, error) {
		out := make([]rune, req.Length)
		for i := range out {
			out[i] = g.Alphanumeric()
		}
		return string(out), nil
	})
}

// Shuffle 返回 Items 的一个随机排列
func (s *StreamService) Shuffle(ctx context.Context, name string, req *ItemsRequest) (*DrawReply, error) {
	if err := checkLength(len(req.Items)); err != nil {
		return nil, err
	}
	return s.draw(ctx, name, func(g *random.Generator) (any, error) {
		items := append([]string{}, req.Items...)
		random.ShuffleSlice(g, items)
		return items, nil
	})
}

// Choose 不放回地选取 min(K, len(Items)) 个元素
func (s *StreamService) Choose(ctx context.Context, name string, req *ItemsRequest) (*DrawReply, error) {
	if err := checkLength(len(req.Items)); err != nil {
		return nil, err
	}
	return s.draw(ctx, name, func(g *random.Generator) (any, error) {
		return random.ChooseMultiple(g, req.Items, req.K), nil
	})
}

// DrawBytes 长度为 Length 的随机字节，JSON 中为 base64
func (s *StreamService) DrawBytes(ctx context.Context, name string, req *LengthRequest) (*DrawReply, error) {
	if err := checkLength(req.Length); err != nil {
		return nil, err
	}
	return s.draw(ctx, name, func(g *random.Generator) (any, error) {
		b := make([]byte, req.Length)
		g.Fill(b)
		return b, nil
	})
}

// HandleReseed 处理 Redis Stream 中的重新播种消息
func (s *StreamService) HandleReseed(ctx context.Context, msgID string, name string, seed uint64) error {
	if _, err := s.uc.Reseed(ctx, name, seed); err != nil {
		if errors.IsNotFound(err) || errors.IsBadRequest(err) {
			// 流不存在或名字非法，重试也不会成功，直接确认
			s.log.Warnf("drop reseed message: msgID=%s name=%s err=%v", msgID, name, err)
			return nil
		}
		return err
	}
	s.log.Infof("stream reseeded from redis stream: msgID=%s name=%s", msgID, name)
	return nil
}
