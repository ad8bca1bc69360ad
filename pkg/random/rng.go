// Package random 提供快速的非加密伪随机数生成器（wyrand），
// 以及无偏的区间采样、字符、浮点数、洗牌、填充与抽样。
package random

import (
	"math/bits"
	"math/rand/v2"
)

const (
	// wyrand 的加法常量与混合常量，修改会改变所有种子的输出序列
	wyAdd = 0xa0761d6478bd642f
	wyMix = 0xe7037ed1a0b428db

	// FallbackSeed 在默认实例不可用（已关闭）时使用的固定种子
	FallbackSeed uint64 = 0x4d595df4d0f33173
)

// Generator 是一个快速的伪随机数生成器（wyrand）
// 注意：不适用于加密场景，输出可被预测
//
// 普通状态的 Generator 不能被多个 goroutine 同时使用，
// 需要共享时使用 NewAtomic，或者每个 goroutine 各自 Fork 一个。
type Generator struct {
	state State
}

var _ rand.Source = (*Generator)(nil)

// WithSeed 使用给定种子创建生成器
func WithSeed(seed uint64) *Generator {
	g := &Generator{state: &plainState{}}
	g.Seed(seed)
	return g
}

// NewAtomic 创建一个状态原子更新的生成器，可安全地被并发使用
func NewAtomic(seed uint64) *Generator {
	g := &Generator{state: &atomicState{}}
	g.Seed(seed)
	return g
}

// New 从默认实例派生一个新的生成器。
// 默认实例已关闭时退化为固定种子 FallbackSeed。
func New() *Generator {
	return defaultLocal.Fork()
}

// Seed 重置状态，之后的输出完全由 seed 决定
func (g *Generator) Seed(seed uint64) {
	g.state.Set(seed)
}

// GetSeed 返回当前状态字（不是最初的种子）
func (g *Generator) GetSeed() uint64 {
	return g.state.Get()
}

// Clone 复制当前状态，返回一个独立的普通生成器
func (g *Generator) Clone() *Generator {
	return WithSeed(g.state.Get())
}

// Fork 用下一个 64 位输出作为种子派生子生成器，父生成器因此前进一步
func (g *Generator) Fork() *Generator {
	return WithSeed(g.Uint64())
}

// Uint64 生成下一个 64 位随机数
func (g *Generator) Uint64() uint64 {
	s := g.state.Add(wyAdd)
	hi, lo := bits.Mul64(s, s^wyMix)
	return hi ^ lo
}

// Uint32 生成下一个 32 位随机数（截断 Uint64）
func (g *Generator) Uint32() uint32 {
	return uint32(g.Uint64())
}

// Uint128 生成下一个 128 位随机数，第一次输出占高 64 位
func (g *Generator) Uint128() Uint128 {
	hi := g.Uint64()
	lo := g.Uint64()
	return Uint128{Hi: hi, Lo: lo}
}

// Bool 生成随机布尔值
func (g *Generator) Bool() bool {
	return g.Uint32()&1 == 0
}
