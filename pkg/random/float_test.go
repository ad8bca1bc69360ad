package random

import "testing"

func TestGenerator_F64(t *testing.T) {
	if got := WithSeed(7).F64(); got != 0.8832325865244359 {
		t.Errorf("F64() = %v, want 0.8832325865244359", got)
	}

	rng := WithSeed(12345)
	var low, high bool
	for i := 0; i < 10000; i++ {
		f := rng.F64()
		if f < 0 || f >= 1 {
			t.Fatalf("F64() = %v, want [0, 1)", f)
		}
		low = low || f < 0.1
		high = high || f > 0.9
	}
	if !low || !high {
		t.Error("F64() does not span [0, 1)")
	}
}

func TestGenerator_F32(t *testing.T) {
	rng := WithSeed(12345)
	var low, high bool
	for i := 0; i < 10000; i++ {
		f := rng.F32()
		if f < 0 || f >= 1 {
			t.Fatalf("F32() = %v, want [0, 1)", f)
		}
		low = low || f < 0.1
		high = high || f > 0.9
	}
	if !low || !high {
		t.Error("F32() does not span [0, 1)")
	}
}

func BenchmarkGenerator_F64(b *testing.B) {
	rng := WithSeed(12345)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rng.F64()
	}
}
