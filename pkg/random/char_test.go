package random

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGenerator_CharClasses(t *testing.T) {
	rng := WithSeed(12345)
	tests := []struct {
		name  string
		table string
		draw  func() rune
	}{
		{"lowercase", lowercaseChars, rng.Lowercase},
		{"uppercase", uppercaseChars, rng.Uppercase},
		{"alphabetic", alphabeticChars, rng.Alphabetic},
		{"alphanumeric", alphanumericChars, rng.Alphanumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cover(t, []rune(tt.table), func() (rune, error) {
				c := tt.draw()
				if !strings.ContainsRune(tt.table, c) {
					t.Fatalf("%s() = %q", tt.name, c)
				}
				return c, nil
			})
		})
	}
}

func TestGenerator_Digit(t *testing.T) {
	rng := WithSeed(12345)
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	for base := uint32(1); base <= 36; base++ {
		cover(t, []rune(digits[:base]), func() (rune, error) { return rng.Digit(base) })
	}

	for _, base := range []uint32{0, 37, 1000} {
		rng := WithSeed(7)
		if _, err := rng.Digit(base); !errors.Is(err, ErrInvalidBase) {
			t.Errorf("Digit(%d) err = %v, want ErrInvalidBase", base, err)
		}
		if rng.GetSeed() != 7 {
			t.Errorf("Digit(%d) advanced state on error", base)
		}
	}
}

func TestGenerator_Char(t *testing.T) {
	rng := WithSeed(12345)

	cover(t, []rune("12345678"), func() (rune, error) { return rng.Char(Span(Ex('0'), Ex('9'))) })
	cover(t, []rune{0xd7ff, 0xe000}, func() (rune, error) { return rng.Char(Closed[rune](0xd7ff, 0xe000)) })

	for i := 0; i < 1000; i++ {
		c, err := rng.Char(Full[rune]())
		if err != nil {
			t.Fatal(err)
		}
		if !utf8.ValidRune(c) {
			t.Fatalf("Char(..) = %#x, not a scalar value", c)
		}
		c, _ = rng.Char(Closed[rune](0xd000, 0xefff))
		if c >= surrogateStart && c < surrogateStart+surrogateLen {
			t.Fatalf("Char produced surrogate %#x", c)
		}
		// 开端点紧贴代理区时跳到另一侧
		if c, _ := rng.Char(Span(Ex[rune](0xd7ff), In[rune](0xe000))); c != 0xe000 {
			t.Fatalf("Char((0xd7ff, 0xe000]) = %#x", c)
		}
		if c, _ := rng.Char(Span(In[rune](0xd7ff), Ex[rune](0xe000))); c != 0xd7ff {
			t.Fatalf("Char([0xd7ff, 0xe000)) = %#x", c)
		}
	}
}

func TestGenerator_CharEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Range[rune]
	}{
		{"reversed", Closed('z', 'a')},
		{"half-open equal", Between('a', 'a')},
		{"surrogate start", Closed[rune](0xd800, 0xd900)},
		{"beyond max", Closed[rune](0x10ffff, 0x110000)},
		{"negative", Closed[rune](-1, 5)},
		{"excluded max", Span(Ex[rune](utf8.MaxRune), Bound[rune]{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := WithSeed(7)
			if _, err := rng.Char(tt.r); !errors.Is(err, ErrEmptyRange) {
				t.Fatalf("Char(%v) err = %v, want ErrEmptyRange", tt.r, err)
			}
			if rng.GetSeed() != 7 {
				t.Errorf("Char(%v) advanced state on error", tt.r)
			}
		})
	}
}
