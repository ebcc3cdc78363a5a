// Package alias implements the identifier scheme for shortened URLs:
// a numeral codec between alias strings and the integers stored for
// them, and a normalizer that collapses visually confusable character
// sequences before validation so that a mistyped homoglyph still
// resolves to the intended alias.
package alias

import (
	"errors"
	"fmt"
)

var ErrAliasValue = errors.New("invalid alias value")

// Alias identifies one shortened URL. The integer form is canonical:
// it is what the store persists and what equality compares. The string
// form is rendered through the codec and memoized on first use.
type Alias struct {
	codec   *Codec
	integer int64
	str     string
}

// FromInt wraps an integer read from the store. The string form stays
// unset until String is first called.
func (c *Codec) FromInt(n int64) (*Alias, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative integer %d", ErrAliasValue, n)
	}
	return &Alias{codec: c, integer: n}, nil
}

// Parse builds an alias from a caller-supplied string. The string is
// normalized and validated against the alphabet, then decoded eagerly,
// so an invalid alias fails here rather than on first use.
func (c *Codec) Parse(raw string) (*Alias, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: the alias string is empty", ErrAliasValue)
	}
	s, err := c.alphabet.FromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAliasValue, err)
	}
	n, err := c.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAliasValue, err)
	}
	return &Alias{codec: c, integer: n, str: s}, nil
}

// Random draws a fresh alias from the alphabet's configured length
// range. The draw is already normalized, so decoding cannot fail.
func (c *Codec) Random() (*Alias, error) {
	s := c.alphabet.CreateRandom()
	n, err := c.Decode(s)
	if err != nil {
		return nil, err
	}
	return &Alias{codec: c, integer: n, str: s}, nil
}

// Int returns the canonical integer form.
func (a *Alias) Int() int64 { return a.integer }

// String renders the alias over the alphabet. The first call derives
// the value and memoizes it; the rendered form never changes afterward.
func (a *Alias) String() string {
	if a.str == "" {
		// Encode cannot fail for a non-negative integer.
		a.str, _ = a.codec.Encode(a.integer)
	}
	return a.str
}

// Equal compares aliases on their canonical integer form.
func (a *Alias) Equal(other *Alias) bool {
	return other != nil && a.integer == other.integer
}
