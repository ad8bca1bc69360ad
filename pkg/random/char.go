package random

import "unicode/utf8"

const (
	lowercaseChars    = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphabeticChars   = uppercaseChars + lowercaseChars
	alphanumericChars = alphabeticChars + "0123456789"

	surrogateStart = 0xd800
	surrogateLen   = 0x800
)

func (g *Generator) pick(table string) rune {
	i, _ := g.U8(Below(uint8(len(table))))
	return rune(table[i])
}

// Lowercase 生成 a-z 之间的随机字符
func (g *Generator) Lowercase() rune { return g.pick(lowercaseChars) }

// Uppercase 生成 A-Z 之间的随机字符
func (g *Generator) Uppercase() rune { return g.pick(uppercaseChars) }

// Alphabetic 生成 a-z、A-Z 之间的随机字符
func (g *Generator) Alphabetic() rune { return g.pick(alphabeticChars) }

// Alphanumeric 生成 a-z、A-Z、0-9 之间的随机字符
func (g *Generator) Alphanumeric() rune { return g.pick(alphanumericChars) }

// Digit 生成 base 进制下的一个随机数字，用 0-9、a-z 表示
// base 为 0 或大于 36 时返回 ErrInvalidBase
func (g *Generator) Digit(base uint32) (rune, error) {
	if base == 0 || base > 36 {
		return 0, invalidBase(base)
	}
	v, _ := g.U8(Below(uint8(base)))
	if v < 10 {
		return rune('0' + v), nil
	}
	return rune('a' + v - 10), nil
}

// Char 在区间内生成一个合法的 Unicode 标量值，跳过代理区 [0xD800, 0xE000)
// 区间为空，或端点本身不是合法标量值时返回 ErrEmptyRange
func (g *Generator) Char(r Range[rune]) (rune, error) {
	low := rune(0)
	switch r.Start.Kind {
	case Included:
		low = r.Start.Value
	case Excluded:
		if r.Start.Value == surrogateStart-1 {
			low = surrogateStart + surrogateLen
		} else {
			low = r.Start.Value + 1
		}
	}

	high := rune(utf8.MaxRune)
	switch r.End.Kind {
	case Included:
		high = r.End.Value
	case Excluded:
		if r.End.Value == surrogateStart+surrogateLen {
			high = surrogateStart - 1
		} else {
			high = r.End.Value - 1
		}
	}

	if !utf8.ValidRune(low) || !utf8.ValidRune(high) || low > high {
		return 0, emptyRange(r)
	}

	var gap uint32
	if low < surrogateStart && high >= surrogateStart {
		gap = surrogateLen
	}
	span := uint32(high-low) - gap
	v, _ := g.U32(Closed(0, span))
	v += uint32(low)
	if v >= surrogateStart {
		v += gap
	}
	return rune(v), nil
}
