package random

import "fmt"

// BoundKind 区间端点类型
type BoundKind uint8

const (
	Unbounded BoundKind = iota // 无界，取类型的最小/最大值
	Included                   // 闭端点
	Excluded                   // 开端点
)

// Bound 区间的一个端点，零值为无界
type Bound[T any] struct {
	Kind  BoundKind
	Value T
}

// In 闭端点
func In[T any](v T) Bound[T] {
	return Bound[T]{Kind: Included, Value: v}
}

// Ex 开端点
func Ex[T any](v T) Bound[T] {
	return Bound[T]{Kind: Excluded, Value: v}
}

func (b Bound[T]) String() string {
	switch b.Kind {
	case Included:
		return fmt.Sprintf("Included(%v)", b.Value)
	case Excluded:
		return fmt.Sprintf("Excluded(%v)", b.Value)
	}
	return "Unbounded"
}

// Range 由起止两个端点描述的取值区间
type Range[T any] struct {
	Start Bound[T]
	End   Bound[T]
}

// Span 由任意两个端点构造区间
func Span[T any](start, end Bound[T]) Range[T] {
	return Range[T]{Start: start, End: end}
}

// Full 类型的全部取值，即 ..
func Full[T any]() Range[T] {
	return Range[T]{}
}

// From lo..
func From[T any](lo T) Range[T] {
	return Range[T]{Start: In(lo)}
}

// Below ..hi
func Below[T any](hi T) Range[T] {
	return Range[T]{End: Ex(hi)}
}

// Through ..=hi
func Through[T any](hi T) Range[T] {
	return Range[T]{End: In(hi)}
}

// Between lo..hi，半开区间
func Between[T any](lo, hi T) Range[T] {
	return Range[T]{Start: In(lo), End: Ex(hi)}
}

// Closed lo..=hi，闭区间
func Closed[T any](lo, hi T) Range[T] {
	return Range[T]{Start: In(lo), End: In(hi)}
}

func (r Range[T]) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// resolve 把区间换算成闭区间 [low, high]（在有序的无符号键空间中）。
// 开端点越界或 low > high 时 ok 为 false。
func resolve[T any](r Range[T], key func(T) uint64, max uint64) (low, high uint64, ok bool) {
	low = 0
	switch r.Start.Kind {
	case Included:
		low = key(r.Start.Value)
	case Excluded:
		low = key(r.Start.Value)
		if low == max {
			return 0, 0, false
		}
		low++
	}

	high = max
	switch r.End.Kind {
	case Included:
		high = key(r.End.Value)
	case Excluded:
		high = key(r.End.Value)
		if high == 0 {
			return 0, 0, false
		}
		high--
	}
	return low, high, low <= high
}

// resolve128 与 resolve 相同，作用于 128 位键空间
func resolve128[T any](r Range[T], key func(T) Uint128) (low, high Uint128, ok bool) {
	switch r.Start.Kind {
	case Included:
		low = key(r.Start.Value)
	case Excluded:
		low = key(r.Start.Value)
		if low == MaxUint128 {
			return low, high, false
		}
		low = low.Add(Uint128From(1))
	}

	high = MaxUint128
	switch r.End.Kind {
	case Included:
		high = key(r.End.Value)
	case Excluded:
		high = key(r.End.Value)
		if high.IsZero() {
			return low, high, false
		}
		high = high.Sub(Uint128From(1))
	}
	return low, high, !high.Less(low)
}
