package strscan

import (
	"errors"
	"math/big"
	"testing"
)

func TestScanInteger(t *testing.T) {
	tests := []struct {
		name  string
		input string
		base  int
		want  string // "" for no match
		pos   int
	}{
		{"letters", "abc", 10, "", 0},
		{"digits", "123abc", 10, "123", 3},
		{"negative", "-123abc", 10, "-123", 4},
		{"plus", "+123", 10, "123", 4},
		{"sign only", "-abc", 10, "", 0},
		{"minus", "-", 10, "", 0},
		{"plus alone", "+", 10, "", 0},
		{"empty", "", 10, "", 0},
		{"leading space", " 1", 10, "", 0},
		{"huge", "12345678901234567890123", 10, "12345678901234567890123", 23},
		{"leading zero", "0123", 10, "123", 4},
		{"decimal ignores hex", "0x10", 10, "0", 1},
		{"hex digits", "ff", 16, "255", 2},
		{"hex prefix", "0xff", 16, "255", 4},
		{"hex upper prefix", "0XFF", 16, "255", 4},
		{"hex negative", "-0xff", 16, "-255", 5},
		{"hex plus", "+0x1A", 16, "26", 5},
		{"hex mixed", "123abcxyz", 16, "1194684", 6},
		{"hex prefix alone", "0x", 16, "0", 1},
		{"hex prefix no digit", "0xg", 16, "0", 1},
		{"hex signed prefix alone", "-0x", 16, "0", 2},
		{"hex no digits", "xff", 16, "", 0},
		{"hex huge", "0xffffffffffffffffffff", 16, "1208925819614629174706175", 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.input)
			v, ok, err := s.ScanInteger(tt.base)
			if err != nil {
				t.Fatalf("ScanInteger(%d) error: %v", tt.base, err)
			}
			if tt.want == "" {
				if ok {
					t.Errorf("ScanInteger(%d) = %v, want no match", tt.base, v)
				}
				if m, _ := s.IsMatched(); m {
					t.Error("IsMatched() = true after failed ScanInteger")
				}
			} else {
				want, _ := new(big.Int).SetString(tt.want, 10)
				if !ok || v.Cmp(want) != 0 {
					t.Errorf("ScanInteger(%d) = %v, %v, want %v", tt.base, v, ok, want)
				}
			}
			if got := pos(t, s); got != tt.pos {
				t.Errorf("Pos() = %d, want %d", got, tt.pos)
			}
		})
	}
}

func TestScanIntegerMatchState(t *testing.T) {
	s := New("abc-123def")
	s.Skip(Lit("abc"))
	v, ok, err := s.ScanInteger(10)
	if err != nil || !ok || v.Int64() != -123 {
		t.Fatalf("ScanInteger() = %v, %v, %v", v, ok, err)
	}
	if m, _ := matched(t, s); m != "-123" {
		t.Errorf("Matched() = %q, want -123", m)
	}
	if pre, _, _ := s.PreMatch(); pre != "abc" {
		t.Errorf("PreMatch() = %q, want abc", pre)
	}
	if post, _, _ := s.PostMatch(); post != "def" {
		t.Errorf("PostMatch() = %q, want def", post)
	}

	if err := s.Unscan(); err != nil {
		t.Fatalf("Unscan() error: %v", err)
	}
	if got := pos(t, s); got != 3 {
		t.Errorf("Pos() after Unscan = %d, want 3", got)
	}
	if m, _ := matched(t, s); m != "abc" {
		t.Errorf("Matched() after Unscan = %q, want abc", m)
	}
}

func TestScanIntegerInvalidBase(t *testing.T) {
	for _, base := range []int{0, 2, 8, 36} {
		s := New("123")
		if _, _, err := s.ScanInteger(base); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ScanInteger(%d) error = %v, want ErrInvalidArgument", base, err)
		}
		if got := pos(t, s); got != 0 {
			t.Errorf("Pos() after ScanInteger(%d) = %d, want 0", base, got)
		}
	}
}

func TestScanInt(t *testing.T) {
	s := New("9223372036854775807 -9223372036854775808 9223372036854775808")
	v, ok, err := s.ScanInt(10)
	if err != nil || !ok || v != 9223372036854775807 {
		t.Errorf("ScanInt() = %d, %v, %v, want max int64", v, ok, err)
	}
	s.Skip(Lit(" "))
	v, ok, err = s.ScanInt(10)
	if err != nil || !ok || v != -9223372036854775808 {
		t.Errorf("ScanInt() = %d, %v, %v, want min int64", v, ok, err)
	}
	s.Skip(Lit(" "))
	before := pos(t, s)

	_, _, err = s.ScanInt(10)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("ScanInt() overflow error = %v, want ErrOutOfRange", err)
	}
	if got := pos(t, s); got != before {
		t.Errorf("Pos() after overflow = %d, want %d", got, before)
	}
	if m, _ := matched(t, s); m != " " {
		t.Errorf("Matched() after overflow = %q, want the previous match", m)
	}

	s = New("zz")
	if _, ok, err := s.ScanInt(16); err != nil || ok {
		t.Errorf("ScanInt(16) on zz = %v, %v, want no match", ok, err)
	}
}
