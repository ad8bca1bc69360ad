package random

import (
	"math/big"
	"testing"
)

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

func fromBig(b *big.Int) Uint128 {
	m := new(big.Int).Mod(b, two128)
	lo := new(big.Int).And(m, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(m, 64)
	return Uint128{Hi: hi.Uint64(), Lo: lo.Uint64()}
}

func TestUint128_MulMatchesBig(t *testing.T) {
	rng := WithSeed(2024)
	for i := 0; i < 2000; i++ {
		a, b := rng.Uint128(), rng.Uint128()
		if i%4 == 0 {
			a.Hi = 0
		}
		prod := new(big.Int).Mul(a.Big(), b.Big())

		hi, lo := mul128(a, b)
		if want := fromBig(new(big.Int).Rsh(prod, 128)); hi != want {
			t.Fatalf("MulHi(%v, %v) = %v, want %v", a, b, hi, want)
		}
		if want := fromBig(prod); lo != want {
			t.Fatalf("Mul(%v, %v) = %v, want %v", a, b, lo, want)
		}
	}
}

func TestUint128_ModMatchesBig(t *testing.T) {
	rng := WithSeed(2025)
	for i := 0; i < 2000; i++ {
		u, n := rng.Uint128(), rng.Uint128()
		switch i % 3 {
		case 0:
			n.Hi = 0
		case 1:
			n = n.Rsh(uint(rng.Uint32N(127)))
		}
		if n.IsZero() {
			continue
		}
		want := fromBig(new(big.Int).Mod(u.Big(), n.Big()))
		if got := u.Mod(n); got != want {
			t.Fatalf("%v mod %v = %v, want %v", u, n, got, want)
		}
	}
}

func TestUint128_Arithmetic(t *testing.T) {
	if got := MaxUint128.Add(Uint128From(1)); !got.IsZero() {
		t.Errorf("MaxUint128 + 1 = %v, want 0", got)
	}
	if got := (Uint128{}).Sub(Uint128From(1)); got != MaxUint128 {
		t.Errorf("0 - 1 = %v, want MaxUint128", got)
	}
	if got := Uint128From(5).Neg().Add(Uint128From(5)); !got.IsZero() {
		t.Errorf("-5 + 5 = %v, want 0", got)
	}
	if got := Uint128From(1).Lsh(100).Rsh(100); got != Uint128From(1) {
		t.Errorf("1<<100>>100 = %v, want 1", got)
	}
	if got := MaxUint128.String(); got != "340282366920938463463374607431768211455" {
		t.Errorf("MaxUint128.String() = %s", got)
	}
}

func TestInt128_Order(t *testing.T) {
	values := []Int128{MinInt128, Int128From(-1 << 40), Int128From(-1), Int128From(0), Int128From(1), Int128From(1 << 62), MaxInt128}
	for i := 1; i < len(values); i++ {
		if values[i-1].Cmp(values[i]) >= 0 {
			t.Errorf("%v should be less than %v", values[i-1], values[i])
		}
	}
	if got := MinInt128.String(); got != "-170141183460469231731687303715884105728" {
		t.Errorf("MinInt128.String() = %s", got)
	}
	if got := Int128From(-42).String(); got != "-42" {
		t.Errorf("Int128From(-42).String() = %s", got)
	}
}
