package random

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

func seven(uint64) uint64 { return 7 }

func TestLocal_LazySeeding(t *testing.T) {
	var mu sync.Mutex
	var ids []uint64
	seeder := func(id uint64) uint64 {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, id)
		return 7
	}

	l := NewLocal(WithSeeder(seeder))
	if len(ids) != 1 {
		t.Fatalf("seeder called %d times before first use, want 1 (spare)", len(ids))
	}
	if got := l.Uint64(); got != 0xe21b87e1e24a18c1 {
		t.Errorf("first Uint64() = %#x, want seed 7 sequence", got)
	}
	l.Uint64()
	if len(ids) != 2 {
		t.Errorf("seeder called %d times, want 2", len(ids))
	}
	if ids[0] == ids[1] {
		t.Error("spare and primary generators share a seed input")
	}
}

func TestLocal_DefaultSeedsDiffer(t *testing.T) {
	a, b := NewLocal(), NewLocal()
	if a.Uint64() == b.Uint64() {
		t.Error("two independently seeded locals produced the same first value")
	}
}

func TestLocal_RestoresAfterPanic(t *testing.T) {
	l := NewLocal(WithSeeder(seven))
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		l.Borrow(func(g *Generator) {
			g.Uint64()
			panic("boom")
		})
	}()

	want := WithSeed(7)
	want.Uint64()
	if got := l.GetSeed(); got != want.GetSeed() {
		t.Errorf("GetSeed() after panic = %#x, want %#x", got, want.GetSeed())
	}
	if got, w := l.Uint64(), want.Uint64(); got != w {
		t.Errorf("Uint64() after panic = %#x, want %#x", got, w)
	}
}

func TestLocal_ReentrantBorrow(t *testing.T) {
	l := NewLocal(WithSeeder(seven))
	l.Borrow(func(g *Generator) {
		before := g.GetSeed()
		l.Uint64()
		if _, err := l.U8(Below[uint8](10)); err != nil {
			t.Fatal(err)
		}
		if g.GetSeed() != before {
			t.Error("nested call advanced the borrowed generator")
		}
	})
	if got := l.Uint64(); got != 0xe21b87e1e24a18c1 {
		t.Errorf("Uint64() after nested calls = %#x, want seed 7 sequence", got)
	}
}

func TestLocal_SeedAndFork(t *testing.T) {
	l := NewLocal()
	l.Seed(7)
	if got := l.GetSeed(); got != 7 {
		t.Fatalf("GetSeed() = %d, want 7", got)
	}
	child := l.Fork()
	if got := child.Uint64(); got != 0x7d818abe4ba572ef {
		t.Errorf("forked Uint64() = %#x", got)
	}
	if got, _ := l.U64(Full[uint64]()); got != 0xdaf7cca9fc31c738 {
		t.Errorf("Uint64() after Fork = %#x, want second draw", got)
	}
}

func TestLocal_Close(t *testing.T) {
	l := NewLocal(WithSeeder(seven))
	l.Uint64()
	l.Close()

	want := WithSeed(FallbackSeed).Uint64()
	for i := 0; i < 3; i++ {
		if got := l.Uint64(); got != want {
			t.Fatalf("Uint64() after Close = %#x, want %#x", got, want)
		}
	}
	if got := l.Fork().GetSeed(); got != FallbackSeed {
		t.Errorf("Fork() after Close seeded with %#x, want FallbackSeed", got)
	}
	if _, err := l.I32(Closed[int32](-5, 5)); err != nil {
		t.Errorf("I32 after Close: %v", err)
	}
}

func TestLocal_Concurrent(t *testing.T) {
	l := NewLocal()
	shared := NewAtomic(1)
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 2000; j++ {
				v, err := l.I16(Closed[int16](-100, 100))
				if err != nil {
					return err
				}
				if v < -100 || v > 100 {
					t.Errorf("I16 = %d", v)
				}
				if c := l.Alphanumeric(); c == 0 {
					t.Error("Alphanumeric() = 0")
				}
				shared.Uint64()
				l.F64()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	// 槽位在所有调用结束后必须回到真实的生成器
	if l.cell.Load() == borrowed {
		t.Error("local left holding the borrowed placeholder")
	}
	want := WithSeed(1)
	for i := 0; i < 8*2000; i++ {
		want.Uint64()
	}
	if shared.GetSeed() != want.GetSeed() {
		t.Errorf("atomic state %#x, want %#x", shared.GetSeed(), want.GetSeed())
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Error("FromContext without a local should return the default")
	}
	l := NewLocal()
	ctx := NewContext(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("FromContext did not return the stored local")
	}
}

func TestGlobal_SeedDeterminism(t *testing.T) {
	Seed(7)
	if got := Uint64(); got != 0xe21b87e1e24a18c1 {
		t.Errorf("Uint64() = %#x after Seed(7)", got)
	}
	Seed(7)
	a, _ := I64(Closed[int64](-1000, 1000))
	b, _ := WithSeed(7).I64(Closed[int64](-1000, 1000))
	if a != b {
		t.Errorf("global I64 = %d, generator I64 = %d", a, b)
	}

	Seed(7)
	var x [8]byte
	Fill(x[:])
	if x[0] != 0xc1 {
		t.Errorf("Fill()[0] = %#x, want 0xc1", x[0])
	}
	if f := F64(); f < 0 || f >= 1 {
		t.Errorf("F64() = %v", f)
	}
	if New() == nil || Fork() == nil {
		t.Error("New/Fork returned nil")
	}
}

func BenchmarkLocal_Uint64(b *testing.B) {
	l := NewLocal()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.Uint64()
	}
}
