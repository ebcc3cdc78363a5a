package alias

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

var (
	ErrAlphabet          = errors.New("invalid alias alphabet")
	ErrLengthRange       = errors.New("invalid alias length range")
	ErrCharNotInAlphabet = errors.New("character not in alphabet")
	ErrIndexOutOfRange   = errors.New("alphabet index out of range")
	ErrInvalidAlias      = errors.New("invalid alias")
)

// randSource supplies the random draws used by CreateRandom. Tests
// substitute a scripted source.
type randSource interface {
	Intn(n int) int
}

// lockedRand draws from the package-level math/rand source, which is
// safe for concurrent use.
type lockedRand struct{}

func (lockedRand) Intn(n int) int { return rand.Intn(n) }

// Alphabet owns the character set and length bounds used for alias
// strings. It is immutable after construction and safe for concurrent
// use.
type Alphabet struct {
	chars     string // distinct characters in sorted order
	minLength int
	maxLength int
	norm      *Normalizer
	rng       randSource
}

// New builds an alphabet over the given characters. It fails with
// ErrAlphabet when the set contains a confusable character that is not
// the canonical representative of its group, and with ErrLengthRange
// unless 0 < minLength <= maxLength.
func New(characters string, minLength, maxLength int) (*Alphabet, error) {
	norm := NewNormalizer(characters)
	for i := 0; i < len(characters); i++ {
		if norm.Replaces(characters[i]) {
			return nil, fmt.Errorf(
				"%w: %q contains confusable character %q",
				ErrAlphabet, characters, string(characters[i]),
			)
		}
	}
	return newAlphabet(characters, minLength, maxLength, norm)
}

// NewStripped builds an alphabet from characters that may include
// confusables: instead of rejecting the set, non-canonical confusables
// are dropped. Intended for configuration values such as "all digits
// and lowercase letters".
func NewStripped(characters string, minLength, maxLength int) (*Alphabet, error) {
	norm := NewNormalizer(characters)
	kept := make([]byte, 0, len(characters))
	for i := 0; i < len(characters); i++ {
		if !norm.Replaces(characters[i]) {
			kept = append(kept, characters[i])
		}
	}
	return newAlphabet(string(kept), minLength, maxLength, norm)
}

func newAlphabet(characters string, minLength, maxLength int, norm *Normalizer) (*Alphabet, error) {
	if len(characters) == 0 {
		return nil, fmt.Errorf("%w: the character set is empty", ErrAlphabet)
	}
	if !(0 < minLength && minLength <= maxLength) {
		return nil, fmt.Errorf(
			"%w: 0 < min <= max does not hold for min=%d max=%d",
			ErrLengthRange, minLength, maxLength,
		)
	}
	return &Alphabet{
		chars:     sortedDistinct(characters),
		minLength: minLength,
		maxLength: maxLength,
		norm:      norm,
		rng:       lockedRand{},
	}, nil
}

func sortedDistinct(s string) string {
	b := []byte(s)
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	out := b[:0]
	for i, c := range b {
		if i == 0 || c != b[i-1] {
			out = append(out, c)
		}
	}
	return string(out)
}

// Len returns the number of distinct characters, which is also the
// base of the numeral system aliases are written in.
func (a *Alphabet) Len() int { return len(a.chars) }

func (a *Alphabet) MinLength() int { return a.minLength }

func (a *Alphabet) MaxLength() int { return a.maxLength }

func (a *Alphabet) String() string { return a.chars }

// Index returns the position of c in the sorted character set.
func (a *Alphabet) Index(c byte) (int, error) {
	i := sort.Search(len(a.chars), func(i int) bool { return a.chars[i] >= c })
	if i == len(a.chars) || a.chars[i] != c {
		return 0, fmt.Errorf("%w: %q", ErrCharNotInAlphabet, string(c))
	}
	return i, nil
}

// Char is the inverse of Index.
func (a *Alphabet) Char(i int) (byte, error) {
	if i < 0 || i >= len(a.chars) {
		return 0, fmt.Errorf("%w: %d is not within [0, %d)", ErrIndexOutOfRange, i, len(a.chars))
	}
	return a.chars[i], nil
}

// FromString normalizes raw and validates that every remaining
// character belongs to the alphabet. The returned string is the
// canonical form of the alias.
func (a *Alphabet) FromString(raw string) (string, error) {
	s := a.norm.Normalize(raw)

	var unexpected []string
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(a.chars, s[i]) < 0 {
			unexpected = append(unexpected, string(s[i]))
		}
	}
	if len(unexpected) > 0 {
		return "", fmt.Errorf(
			"%w: %q contains unsupported characters: %s",
			ErrInvalidAlias, s, strings.Join(unexpected, ", "),
		)
	}
	return s, nil
}

// CreateRandom draws a uniformly random length within the configured
// bounds and that many uniformly random characters, then normalizes
// the result. A multi-character collapse can shorten the string below
// the minimum length; such draws are discarded and repeated in full
// rather than padded or truncated. Collapses are rare, so the loop
// terminates after very few iterations in practice.
func (a *Alphabet) CreateRandom() string {
redraw:
	for {
		length := a.minLength + a.rng.Intn(a.maxLength-a.minLength+1)
		b := make([]byte, length)
		for i := range b {
			b[i] = a.chars[a.rng.Intn(len(a.chars))]
		}
		s := a.norm.Normalize(string(b))
		if len(s) < a.minLength {
			continue redraw
		}
		return s
	}
}
