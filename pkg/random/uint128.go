package random

import (
	"math"
	"math/big"
	"math/bits"
)

// Uint128 无符号 128 位整数，所有算术均为回绕（mod 2^128）
type Uint128 struct {
	Hi, Lo uint64
}

// Int128 有符号 128 位整数，二进制补码表示，Hi 的最高位为符号位
type Int128 struct {
	Hi, Lo uint64
}

var (
	MaxUint128 = Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}
	MinInt128  = Int128{Hi: 1 << 63}
	MaxInt128  = Int128{Hi: 1<<63 - 1, Lo: math.MaxUint64}
)

// Uint128From 把 uint64 扩展为 Uint128
func Uint128From(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Int128From 把 int64 符号扩展为 Int128
func Int128From(v int64) Int128 {
	return Int128{Hi: uint64(v >> 63), Lo: uint64(v)}
}

func (u Uint128) IsZero() bool { return u.Hi == 0 && u.Lo == 0 }

// Cmp 比较大小，返回 -1、0 或 1
func (u Uint128) Cmp(v Uint128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return 1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return 1
	}
	return 0
}

func (u Uint128) Less(v Uint128) bool { return u.Cmp(v) < 0 }

func (u Uint128) Add(v Uint128) Uint128 {
	lo, c := bits.Add64(u.Lo, v.Lo, 0)
	hi, _ := bits.Add64(u.Hi, v.Hi, c)
	return Uint128{Hi: hi, Lo: lo}
}

func (u Uint128) Sub(v Uint128) Uint128 {
	lo, b := bits.Sub64(u.Lo, v.Lo, 0)
	hi, _ := bits.Sub64(u.Hi, v.Hi, b)
	return Uint128{Hi: hi, Lo: lo}
}

// Neg 返回 -u（mod 2^128）
func (u Uint128) Neg() Uint128 {
	return Uint128{}.Sub(u)
}

// Mul 返回 u*v 的低 128 位
func (u Uint128) Mul(v Uint128) Uint128 {
	_, lo := mul128(u, v)
	return lo
}

// MulHi 返回 u*v 的高 128 位
func (u Uint128) MulHi(v Uint128) Uint128 {
	hi, _ := mul128(u, v)
	return hi
}

// mul128 四分量竖式乘法，返回 256 位乘积的高、低 128 位
func mul128(a, b Uint128) (hi, lo Uint128) {
	p0h, p0l := bits.Mul64(a.Lo, b.Lo)
	p1h, p1l := bits.Mul64(a.Hi, b.Lo)
	p2h, p2l := bits.Mul64(a.Lo, b.Hi)
	p3h, p3l := bits.Mul64(a.Hi, b.Hi)

	mid, c1 := bits.Add64(p0h, p1l, 0)
	mid, c2 := bits.Add64(mid, p2l, 0)
	lo = Uint128{Hi: mid, Lo: p0l}

	hiLo, c := bits.Add64(p3l, p1h, 0)
	hiHi := p3h + c
	hiLo, c = bits.Add64(hiLo, p2h, 0)
	hiHi += c
	hiLo, c = bits.Add64(hiLo, c1+c2, 0)
	hiHi += c
	hi = Uint128{Hi: hiHi, Lo: hiLo}
	return hi, lo
}

func (u Uint128) Lsh(n uint) Uint128 {
	switch {
	case n >= 128:
		return Uint128{}
	case n >= 64:
		return Uint128{Hi: u.Lo << (n - 64)}
	case n == 0:
		return u
	}
	return Uint128{Hi: u.Hi<<n | u.Lo>>(64-n), Lo: u.Lo << n}
}

func (u Uint128) Rsh(n uint) Uint128 {
	switch {
	case n >= 128:
		return Uint128{}
	case n >= 64:
		return Uint128{Lo: u.Hi >> (n - 64)}
	case n == 0:
		return u
	}
	return Uint128{Hi: u.Hi >> n, Lo: u.Lo>>n | u.Hi<<(64-n)}
}

// Mod 返回 u % n，n 为零时 panic
func (u Uint128) Mod(n Uint128) Uint128 {
	if n.IsZero() {
		panic("random: Uint128 modulo by zero")
	}
	if n.Hi == 0 {
		_, r := bits.Div64(0, u.Hi, n.Lo)
		_, r = bits.Div64(r, u.Lo, n.Lo)
		return Uint128{Lo: r}
	}
	if u.Less(n) {
		return u
	}
	// n.Hi != 0 且 u >= n，商不超过 64 位，逐位回减即可
	shift := bits.LeadingZeros64(n.Hi) - bits.LeadingZeros64(u.Hi)
	d := n.Lsh(uint(shift))
	r := u
	for i := 0; i <= shift; i++ {
		if !r.Less(d) {
			r = r.Sub(d)
		}
		d = d.Rsh(1)
	}
	return r
}

// Big 转换为 *big.Int
func (u Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(u.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	return u.Big().String()
}

// Negative 是否为负数
func (i Int128) Negative() bool {
	return i.Hi>>63 == 1
}

// Cmp 按有符号语义比较大小
func (i Int128) Cmp(j Int128) int {
	return i.key().Cmp(j.key())
}

// key 翻转符号位，得到与有符号顺序一致的无符号值
func (i Int128) key() Uint128 {
	return Uint128{Hi: i.Hi ^ 1<<63, Lo: i.Lo}
}

func int128FromKey(k Uint128) Int128 {
	return Int128{Hi: k.Hi ^ 1<<63, Lo: k.Lo}
}

// Big 转换为 *big.Int
func (i Int128) Big() *big.Int {
	if !i.Negative() {
		return Uint128(i).Big()
	}
	b := Uint128(i).Neg().Big()
	return b.Neg(b)
}

func (i Int128) String() string {
	return i.Big().String()
}
