package alias

import (
	"errors"
	"math/rand"
	"testing"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testAlphabet(t))
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return c
}

func TestNewCodecCapacityCheck(t *testing.T) {
	// Base 13: 13^8 fits a signed 32-bit integer, 13^9 does not.
	a, err := New(testChars, 2, 8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := NewCodec(a); err != nil {
		t.Errorf("NewCodec with max length 8 failed: %v", err)
	}

	a, err = New(testChars, 2, 9)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := NewCodec(a); !errors.Is(err, ErrAlphabetCapacity) {
		t.Errorf("NewCodec with max length 9 err = %v, want ErrAlphabetCapacity", err)
	}
}

func TestNewCodecCapacityBoundIsExact(t *testing.T) {
	// Base 2: a 31-character alias tops out at 2^31 - 1, exactly the
	// largest storable value; 32 characters overflow.
	a, err := New("xy", 1, 31)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := NewCodec(a); err != nil {
		t.Errorf("NewCodec with max length 31 over base 2 failed: %v", err)
	}

	a, err = New("xy", 1, 32)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := NewCodec(a); !errors.Is(err, ErrAlphabetCapacity) {
		t.Errorf("NewCodec with max length 32 err = %v, want ErrAlphabetCapacity", err)
	}
}

func TestNewCodecRejectsSingleCharacterAlphabet(t *testing.T) {
	// Stripping "0O" leaves only the canonical "0"; a one-character
	// set cannot form a positional numeral system, and the capacity
	// loop would never terminate over base 1.
	a, err := NewStripped("0O", 1, 1)
	if err != nil {
		t.Fatalf("NewStripped failed: %v", err)
	}
	if a.Len() != 1 {
		t.Fatalf("stripped alphabet Len() = %d, want 1", a.Len())
	}
	if _, err := NewCodec(a); !errors.Is(err, ErrAlphabet) {
		t.Errorf("NewCodec over one character err = %v, want ErrAlphabet", err)
	}
}

func TestEncode(t *testing.T) {
	c := testCodec(t)

	cases := []struct {
		n    int64
		want string
	}{
		{0, "1"},
		{1, "2"},
		{12, "w"},
		{13, "21"},
		{1107, "cd3"}, // 6*13^2 + 7*13 + 2
	}
	for _, tc := range cases {
		got, err := c.Encode(tc.n)
		if err != nil {
			t.Errorf("Encode(%d) failed: %v", tc.n, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Encode(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}

	if _, err := c.Encode(-1); !errors.Is(err, ErrAliasValue) {
		t.Errorf("Encode(-1) err = %v, want ErrAliasValue", err)
	}
}

func TestDecode(t *testing.T) {
	c := testCodec(t)

	cases := []struct {
		in   string
		want int64
	}{
		{"1", 0},
		{"2", 1},
		{"w", 12},
		{"21", 13},
		{"cd3", 1107},
	}
	for _, tc := range cases {
		got, err := c.Decode(tc.in)
		if err != nil {
			t.Errorf("Decode(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Decode(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	if _, err := c.Decode("xyz"); !errors.Is(err, ErrInvalidAlias) {
		t.Errorf("Decode(\"xyz\") err = %v, want ErrInvalidAlias", err)
	}
	if _, err := c.Decode(""); !errors.Is(err, ErrInvalidAlias) {
		t.Errorf("Decode(\"\") err = %v, want ErrInvalidAlias", err)
	}
}

func TestRoundTrip(t *testing.T) {
	c := testCodec(t)

	for n := int64(0); n < 5000; n++ {
		s, err := c.Encode(n)
		if err != nil {
			t.Fatalf("Encode(%d) failed: %v", n, err)
		}
		back, err := c.Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", s, err)
		}
		if back != n {
			t.Fatalf("Decode(Encode(%d)) = %d", n, back)
		}
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		n := rng.Int63n(maxStoredAlias + 1)
		s, err := c.Encode(n)
		if err != nil {
			t.Fatalf("Encode(%d) failed: %v", n, err)
		}
		back, err := c.Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", s, err)
		}
		if back != n {
			t.Fatalf("Decode(Encode(%d)) = %d", n, back)
		}
	}
}

func TestRoundTripStrings(t *testing.T) {
	c := testCodec(t)
	a := c.Alphabet()

	// Strings with no leading zero symbol re-encode to themselves.
	for i := 0; i < 500; i++ {
		s := a.CreateRandom()
		if s[0] == a.chars[0] {
			continue
		}
		n, err := c.Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", s, err)
		}
		back, err := c.Encode(n)
		if err != nil {
			t.Fatalf("Encode(%d) failed: %v", n, err)
		}
		if back != s {
			t.Fatalf("Encode(Decode(%q)) = %q", s, back)
		}
	}
}
