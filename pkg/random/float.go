package random

import "math"

// 构造 [1, 2) 之间、尾数均匀随机的浮点数位模式，再减去 1。
// 精度等于尾数位数，不使用除法。

// F32 生成 [0, 1) 之间的 float32
func (g *Generator) F32() float32 {
	const b, f = 32, 23
	return math.Float32frombits((1<<(b-2))-(1<<f)+(g.Uint32()>>(b-f))) - 1.0
}

// F64 生成 [0, 1) 之间的 float64
func (g *Generator) F64() float64 {
	const b, f = 64, 52
	return math.Float64frombits((1<<(b-2))-(1<<f)+(g.Uint64()>>(b-f))) - 1.0
}
