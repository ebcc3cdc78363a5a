package alias

import (
	"errors"
	"fmt"
	"math"
)

var ErrAlphabetCapacity = errors.New("alias length range exceeds storage capacity")

// maxStoredAlias is the largest value the alias storage column can
// hold: the column maps to a signed 32-bit integer in the database.
const maxStoredAlias = math.MaxInt32

// Codec converts between alias strings and the integers stored for
// them: a base-N numeral system over the alphabet's sorted characters.
type Codec struct {
	alphabet *Alphabet
}

// NewCodec binds a codec to an alphabet. It fails when the alphabet
// has fewer than two characters, or when the configured maximum length
// admits strings whose integer value cannot fit the storage column, so
// a misconfigured deployment dies at startup rather than on the first
// overflowing alias. The largest safe length is
// computed with exact integer multiplication, not a floating-point
// logarithm.
func NewCodec(alphabet *Alphabet) (*Codec, error) {
	base := int64(alphabet.Len())
	if base < 2 {
		return nil, fmt.Errorf(
			"%w: a numeral system needs at least two characters, got %d",
			ErrAlphabet, base,
		)
	}

	// maxSafe ends up as the largest L with base^L - 1 <= maxStoredAlias,
	// the highest value an L-character alias can take.
	maxSafe := 0
	for v := int64(1); v <= (maxStoredAlias+1)/base; v *= base {
		maxSafe++
	}
	if alphabet.MaxLength() > maxSafe {
		return nil, fmt.Errorf(
			"%w: %d-character aliases over a base-%d alphabet do not fit a 32-bit integer (at most %d characters do)",
			ErrAlphabetCapacity, alphabet.MaxLength(), base, maxSafe,
		)
	}
	return &Codec{alphabet: alphabet}, nil
}

// Alphabet returns the alphabet the codec is bound to.
func (c *Codec) Alphabet() *Alphabet { return c.alphabet }

// Encode renders n as a numeral over the alphabet, most significant
// symbol first. There is no leading-zero padding; zero itself encodes
// as the single lowest symbol.
func (c *Codec) Encode(n int64) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: cannot encode negative value %d", ErrAliasValue, n)
	}
	base := int64(c.alphabet.Len())
	buf := make([]byte, 0, c.alphabet.MaxLength())
	for {
		buf = append(buf, c.alphabet.chars[n%base])
		n /= base
		if n == 0 {
			break
		}
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// Decode interprets s as a numeral over the alphabet and returns its
// integer value. It fails with ErrInvalidAlias when s contains a
// character the alphabet does not use; callers are expected to pass
// canonical strings (see Alphabet.FromString).
func (c *Codec) Decode(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAlias)
	}
	base := int64(c.alphabet.Len())
	var value int64
	for i := 0; i < len(s); i++ {
		digit, err := c.alphabet.Index(s[i])
		if err != nil {
			return 0, fmt.Errorf(
				"%w: character %q is not used by the alphabet",
				ErrInvalidAlias, string(s[i]),
			)
		}
		if value > (math.MaxInt64-int64(digit))/base {
			return 0, fmt.Errorf("%w: %q is too long to decode", ErrInvalidAlias, s)
		}
		value = value*base + int64(digit)
	}
	return value, nil
}
