package random

import "math/bits"

// Bounded sampling below uses Lemire's multiply-and-reject method:
// https://lemire.me/blog/2016/06/30/fast-random-shuffling/
// The candidate is the high half of r*n; the low half decides whether r fell
// into the short, biased tail and has to be redrawn.

// Uint32N 返回 [0, n) 内均匀分布的 uint32，没有取模偏差
// n 为 0 时 panic
func (g *Generator) Uint32N(n uint32) uint32 {
	if n == 0 {
		panic("random: invalid argument to Uint32N")
	}
	prod := uint64(g.Uint32()) * uint64(n)
	lo := uint32(prod)
	if lo < n {
		t := -n % n
		for lo < t {
			prod = uint64(g.Uint32()) * uint64(n)
			lo = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}

// Uint64N 返回 [0, n) 内均匀分布的 uint64，没有取模偏差
// n 为 0 时 panic
func (g *Generator) Uint64N(n uint64) uint64 {
	if n == 0 {
		panic("random: invalid argument to Uint64N")
	}
	hi, lo := bits.Mul64(g.Uint64(), n)
	if lo < n {
		t := -n % n
		for lo < t {
			hi, lo = bits.Mul64(g.Uint64(), n)
		}
	}
	return hi
}

// Uint128N 返回 [0, n) 内均匀分布的 Uint128，没有取模偏差
// n 为 0 时 panic
func (g *Generator) Uint128N(n Uint128) Uint128 {
	if n.IsZero() {
		panic("random: invalid argument to Uint128N")
	}
	hi, lo := mul128(g.Uint128(), n)
	if lo.Less(n) {
		t := n.Neg().Mod(n)
		for lo.Less(t) {
			hi, lo = mul128(g.Uint128(), n)
		}
	}
	return hi
}
