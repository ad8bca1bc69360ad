package random

import (
	"math"
	"math/bits"
	"unsafe"
)

// Integer 所有内置整数类型
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Int 在区间 r 内均匀地生成一个 T。
// 区间为空（包括开端点越界）时返回 ErrEmptyRange，生成器状态不变。
//
// 有符号值先翻转符号位映射到等宽的无符号键空间，键空间的顺序与原值一致，
// 因此所有宽度和符号性共用同一套规则。宽度不超过 32 位时使用 32 位核心，
// 否则使用 64 位核心；int、uint、uintptr 随平台字长选择。
func Int[T Integer](g *Generator, r Range[T]) (T, error) {
	var zero T
	width := uint(unsafe.Sizeof(zero)) * 8
	mask := uint64(math.MaxUint64) >> (64 - width)
	var flip uint64
	if ^zero < 0 {
		flip = 1 << (width - 1)
	}
	key := func(v T) uint64 { return (uint64(v) ^ flip) & mask }

	low, high, ok := resolve(r, key, mask)
	if !ok {
		return zero, emptyRange(r)
	}

	if low == 0 && high == mask {
		if width <= 32 {
			return T(g.Uint32()), nil
		}
		return T(g.Uint64()), nil
	}

	var k uint64
	if width <= 32 {
		k = low + uint64(g.Uint32N(uint32(high-low+1)))
	} else {
		k = low + g.Uint64N(high-low+1)
	}
	return T(k ^ flip), nil
}

// U8 在区间内生成 uint8
func (g *Generator) U8(r Range[uint8]) (uint8, error) { return Int(g, r) }

// U16 在区间内生成 uint16
func (g *Generator) U16(r Range[uint16]) (uint16, error) { return Int(g, r) }

// U32 在区间内生成 uint32
func (g *Generator) U32(r Range[uint32]) (uint32, error) { return Int(g, r) }

// U64 在区间内生成 uint64
func (g *Generator) U64(r Range[uint64]) (uint64, error) { return Int(g, r) }

// Usize 在区间内生成 uint（平台字长）
func (g *Generator) Usize(r Range[uint]) (uint, error) { return Int(g, r) }

// I8 在区间内生成 int8
func (g *Generator) I8(r Range[int8]) (int8, error) { return Int(g, r) }

// I16 在区间内生成 int16
func (g *Generator) I16(r Range[int16]) (int16, error) { return Int(g, r) }

// I32 在区间内生成 int32
func (g *Generator) I32(r Range[int32]) (int32, error) { return Int(g, r) }

// I64 在区间内生成 int64
func (g *Generator) I64(r Range[int64]) (int64, error) { return Int(g, r) }

// Isize 在区间内生成 int（平台字长）
func (g *Generator) Isize(r Range[int]) (int, error) { return Int(g, r) }

// U128 在区间内生成 Uint128
func (g *Generator) U128(r Range[Uint128]) (Uint128, error) {
	low, high, ok := resolve128(r, func(v Uint128) Uint128 { return v })
	if !ok {
		return Uint128{}, emptyRange(r)
	}
	if low.IsZero() && high == MaxUint128 {
		return g.Uint128(), nil
	}
	return low.Add(g.Uint128N(high.Sub(low).Add(Uint128From(1)))), nil
}

// I128 在区间内生成 Int128
func (g *Generator) I128(r Range[Int128]) (Int128, error) {
	low, high, ok := resolve128(r, Int128.key)
	if !ok {
		return Int128{}, emptyRange(r)
	}
	if low.IsZero() && high == MaxUint128 {
		return Int128(g.Uint128()), nil
	}
	k := low.Add(g.Uint128N(high.Sub(low).Add(Uint128From(1))))
	return int128FromKey(k), nil
}

// index 返回 [0, n) 内的下标，n 必须大于 0
func (g *Generator) index(n int) int {
	if bits.UintSize == 32 {
		return int(g.Uint32N(uint32(n)))
	}
	return int(g.Uint64N(uint64(n)))
}
