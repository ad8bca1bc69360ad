package random

import (
	"encoding/binary"
	"io"
	"iter"
)

// Borrower 能在独占的生成器上执行操作的对象。
// *Generator 直接执行；*Local 借出其生成器并在返回（包括 panic）时归还。
type Borrower interface {
	Borrow(fn func(g *Generator))
}

var (
	_ Borrower  = (*Generator)(nil)
	_ io.Reader = (*Generator)(nil)
)

// Borrow 在 g 自身上执行 fn
func (g *Generator) Borrow(fn func(g *Generator)) {
	fn(g)
}

func borrow(b Borrower, fn func(g *Generator)) {
	if g, ok := b.(*Generator); ok {
		fn(g)
		return
	}
	b.Borrow(fn)
}

// Shuffle 随机打乱 n 个元素的顺序（Fisher-Yates），swap 交换下标 i 和 j 的元素
// n < 0 时 panic
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	if n < 0 {
		panic("random: invalid argument to Shuffle")
	}
	for i := 1; i < n; i++ {
		swap(i, g.index(i+1))
	}
}

// Fill 用随机字节填满 b，每 8 字节消耗一次 Uint64（小端序），
// 末尾不足 8 字节时只取所需的前缀
func (g *Generator) Fill(b []byte) {
	for len(b) >= 8 {
		binary.LittleEndian.PutUint64(b, g.Uint64())
		b = b[8:]
	}
	if len(b) > 0 {
		var block [8]byte
		binary.LittleEndian.PutUint64(block[:], g.Uint64())
		copy(b, block[:len(b)])
	}
}

// Read 实现 io.Reader，总是填满 p 且不返回错误
func (g *Generator) Read(p []byte) (int, error) {
	g.Fill(p)
	return len(p), nil
}

// ShuffleSlice 原地打乱切片，长度为 0 或 1 时不做任何事
func ShuffleSlice[T any](b Borrower, s []T) {
	borrow(b, func(g *Generator) {
		for i := 1; i < len(s); i++ {
			j := g.index(i + 1)
			s[i], s[j] = s[j], s[i]
		}
	})
}

// Choice 均匀地返回指向切片中某个元素的指针，切片为空时返回 nil
func Choice[T any](b Borrower, s []T) *T {
	if len(s) == 0 {
		return nil
	}
	var p *T
	borrow(b, func(g *Generator) {
		p = &s[g.index(len(s))]
	})
	return p
}

// ChoiceSeq 从长度未知的序列中均匀选取一个元素（容量为 1 的蓄水池抽样）
// 序列为空时 ok 为 false
func ChoiceSeq[T any](b Borrower, seq iter.Seq[T]) (v T, ok bool) {
	borrow(b, func(g *Generator) {
		i := 0
		for x := range seq {
			if i == 0 || g.index(i+1) == 0 {
				v, ok = x, true
			}
			i++
		}
	})
	return v, ok
}

// ChooseMultiple 不放回地选取 min(k, len(s)) 个元素，结果顺序不保证。
// 长度已知，在副本上做部分 Fisher-Yates，不修改 s。
func ChooseMultiple[T any](b Borrower, s []T, k int) []T {
	if k <= 0 || len(s) == 0 {
		return []T{}
	}
	k = min(k, len(s))
	c := make([]T, len(s))
	copy(c, s)
	borrow(b, func(g *Generator) {
		for i := 0; i < k; i++ {
			j := i + g.index(len(c)-i)
			c[i], c[j] = c[j], c[i]
		}
	})
	return c[:k:k]
}

// ChooseMultipleSeq 从长度未知的序列中不放回地选取最多 k 个元素（蓄水池抽样）
func ChooseMultipleSeq[T any](b Borrower, seq iter.Seq[T], k int) []T {
	if k <= 0 {
		return []T{}
	}
	reservoir := make([]T, 0, k)
	borrow(b, func(g *Generator) {
		i := 0
		for x := range seq {
			if len(reservoir) < k {
				reservoir = append(reservoir, x)
			} else if j := g.index(i + 1); j < k {
				reservoir[j] = x
			}
			i++
		}
	})
	return reservoir
}
