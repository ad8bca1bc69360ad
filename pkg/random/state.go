package random

import "sync/atomic"

// State 是生成器的状态存储能力：读取、写入、以及按增量推进一个 64 位字。
// 算法只依赖这三个操作，因此普通存储和原子存储共用同一套生成逻辑。
type State interface {
	// Get 返回当前状态字
	Get() uint64
	// Set 覆盖状态字
	Set(v uint64)
	// Add 将状态字加上 delta 并返回新值
	Add(delta uint64) uint64
}

// plainState 单一所有者使用的普通状态，不可并发访问
type plainState struct {
	v uint64
}

func (s *plainState) Get() uint64  { return s.v }
func (s *plainState) Set(v uint64) { s.v = v }

func (s *plainState) Add(delta uint64) uint64 {
	s.v += delta
	return s.v
}

// atomicState 原子更新的状态，可在多个 goroutine 之间共享。
// 只保证每次更新的原子性，不保证跨 goroutine 的输出顺序。
type atomicState struct {
	v atomic.Uint64
}

func (s *atomicState) Get() uint64  { return s.v.Load() }
func (s *atomicState) Set(v uint64) { s.v.Store(v) }

func (s *atomicState) Add(delta uint64) uint64 {
	return s.v.Add(delta)
}
