package random

import (
	"context"
	"sync/atomic"

	"github.com/go-kratos/kratos/v2/log"
)

// borrowed 生成器被借出期间留在槽位中的占位符
var borrowed = &Generator{state: &plainState{}}

// Local 持有一个延迟初始化的生成器，供同一个 goroutine（或同一个请求）独占使用。
//
// 每个操作先用占位符原子地换出生成器，在取出的生成器上执行，
// 再通过 defer 放回（panic 时同样放回），因此槽位不会在操作结束后停留在占位符上。
//
// 若换出时发现槽位已是占位符（其他 goroutine 正在使用，或在借用期间重入），
// 本次调用改用从原子备用生成器派生的新实例，不会与持有者共享同一个生成器。
// 这些输出不属于种子决定的序列：需要可复现结果的调用方应独占自己的 Local，
// 并且不要在 Borrow 的回调中再调用同一个 Local。
type Local struct {
	id     uint64
	cell   atomic.Pointer[Generator]
	spare  *Generator
	closed atomic.Bool
	seeder Seeder
	log    *log.Helper
}

// LocalOption Local 的可选配置
type LocalOption func(*Local)

// WithSeeder 替换初始种子来源（默认混合时钟读数与实例标识）
func WithSeeder(s Seeder) LocalOption {
	return func(l *Local) {
		l.seeder = s
	}
}

// WithLogger 设置日志输出，默认使用 kratos 全局 logger
func WithLogger(logger log.Logger) LocalOption {
	return func(l *Local) {
		l.log = log.NewHelper(log.With(logger, "module", "pkg/random"))
	}
}

// NewLocal 创建 Local，生成器在第一次使用时才播种
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		id:     identities.Add(1),
		seeder: entropy,
	}
	for _, o := range opts {
		o(l)
	}
	if l.log == nil {
		l.log = log.NewHelper(log.With(log.GetLogger(), "module", "pkg/random"))
	}
	l.spare = NewAtomic(l.seeder(^l.id))
	return l
}

// acquire 换出槽位中的生成器；owned 为 true 时调用方必须 release
func (l *Local) acquire() (g *Generator, owned bool) {
	if l.closed.Load() {
		l.log.Debugf("local %d is closed, using fallback seed", l.id)
		return WithSeed(FallbackSeed), false
	}
	g = l.cell.Swap(borrowed)
	switch g {
	case borrowed:
		return l.spare.Fork(), false
	case nil:
		g = WithSeed(l.seeder(l.id))
	}
	return g, true
}

// Borrow 独占地借出生成器执行 fn，返回或 panic 时都会放回
func (l *Local) Borrow(fn func(g *Generator)) {
	g, owned := l.acquire()
	if owned {
		defer l.cell.Store(g)
	}
	fn(g)
}

// Close 销毁 Local，之后的操作都使用固定种子 FallbackSeed
func (l *Local) Close() {
	l.closed.Store(true)
	l.cell.Store(nil)
}

// Seed 重新播种，之后的序列完全由 seed 决定
func (l *Local) Seed(seed uint64) {
	l.Borrow(func(g *Generator) { g.Seed(seed) })
}

// GetSeed 返回当前状态字
func (l *Local) GetSeed() (seed uint64) {
	l.Borrow(func(g *Generator) { seed = g.GetSeed() })
	return seed
}

// Fork 从当前生成器派生一个独立的生成器；Local 已关闭时使用 FallbackSeed
func (l *Local) Fork() *Generator {
	if l.closed.Load() {
		l.log.Debugf("local %d is closed, forking from fallback seed", l.id)
		return WithSeed(FallbackSeed)
	}
	var child *Generator
	l.Borrow(func(g *Generator) { child = g.Fork() })
	return child
}

func (l *Local) Bool() (v bool) {
	l.Borrow(func(g *Generator) { v = g.Bool() })
	return v
}

func (l *Local) Uint32() (v uint32) {
	l.Borrow(func(g *Generator) { v = g.Uint32() })
	return v
}

func (l *Local) Uint64() (v uint64) {
	l.Borrow(func(g *Generator) { v = g.Uint64() })
	return v
}

func (l *Local) U8(r Range[uint8]) (v uint8, err error) {
	l.Borrow(func(g *Generator) { v, err = g.U8(r) })
	return v, err
}

func (l *Local) U16(r Range[uint16]) (v uint16, err error) {
	l.Borrow(func(g *Generator) { v, err = g.U16(r) })
	return v, err
}

func (l *Local) U32(r Range[uint32]) (v uint32, err error) {
	l.Borrow(func(g *Generator) { v, err = g.U32(r) })
	return v, err
}

func (l *Local) U64(r Range[uint64]) (v uint64, err error) {
	l.Borrow(func(g *Generator) { v, err = g.U64(r) })
	return v, err
}

func (l *Local) U128(r Range[Uint128]) (v Uint128, err error) {
	l.Borrow(func(g *Generator) { v, err = g.U128(r) })
	return v, err
}

func (l *Local) Usize(r Range[uint]) (v uint, err error) {
	l.Borrow(func(g *Generator) { v, err = g.Usize(r) })
	return v, err
}

func (l *Local) I8(r Range[int8]) (v int8, err error) {
	l.Borrow(func(g *Generator) { v, err = g.I8(r) })
	return v, err
}

func (l *Local) I16(r Range[int16]) (v int16, err error) {
	l.Borrow(func(g *Generator) { v, err = g.I16(r) })
	return v, err
}

func (l *Local) I32(r Range[int32]) (v int32, err error) {
	l.Borrow(func(g *Generator) { v, err = g.I32(r) })
	return v, err
}

func (l *Local) I64(r Range[int64]) (v int64, err error) {
	l.Borrow(func(g *Generator) { v, err = g.I64(r) })
	return v, err
}

func (l *Local) I128(r Range[Int128]) (v Int128, err error) {
	l.Borrow(func(g *Generator) { v, err = g.I128(r) })
	return v, err
}

func (l *Local) Isize(r Range[int]) (v int, err error) {
	l.Borrow(func(g *Generator) { v, err = g.Isize(r) })
	return v, err
}

func (l *Local) Alphabetic() (c rune) {
	l.Borrow(func(g *Generator) { c = g.Alphabetic() })
	return c
}

func (l *Local) Alphanumeric() (c rune) {
	l.Borrow(func(g *Generator) { c = g.Alphanumeric() })
	return c
}

func (l *Local) Lowercase() (c rune) {
	l.Borrow(func(g *Generator) { c = g.Lowercase() })
	return c
}

func (l *Local) Uppercase() (c rune) {
	l.Borrow(func(g *Generator) { c = g.Uppercase() })
	return c
}

func (l *Local) Digit(base uint32) (c rune, err error) {
	l.Borrow(func(g *Generator) { c, err = g.Digit(base) })
	return c, err
}

func (l *Local) Char(r Range[rune]) (c rune, err error) {
	l.Borrow(func(g *Generator) { c, err = g.Char(r) })
	return c, err
}

func (l *Local) F32() (f float32) {
	l.Borrow(func(g *Generator) { f = g.F32() })
	return f
}

func (l *Local) F64() (f float64) {
	l.Borrow(func(g *Generator) { f = g.F64() })
	return f
}

func (l *Local) Shuffle(n int, swap func(i, j int)) {
	l.Borrow(func(g *Generator) { g.Shuffle(n, swap) })
}

func (l *Local) Fill(b []byte) {
	l.Borrow(func(g *Generator) { g.Fill(b) })
}

type localKey struct{}

// NewContext 返回携带 l 的 context，用于把 Local 限定在一个请求内
func NewContext(ctx context.Context, l *Local) context.Context {
	return context.WithValue(ctx, localKey{}, l)
}

// FromContext 取出 context 中的 Local，没有时返回默认实例
func FromContext(ctx context.Context) *Local {
	if l, ok := ctx.Value(localKey{}).(*Local); ok {
		return l
	}
	return defaultLocal
}
