package alias

import (
	"sort"
	"strings"
)

// confusableGroups lists character sequences that readers commonly
// mistake for one another. Normalization rewrites every member of a
// group into a single canonical member chosen from the configured
// character set.
var confusableGroups = [][]string{
	{"rn", "m"},
	{"vv", "w"},
	{"9", "cj", "g"},
	{"ci", "a"},
	{"1", "I", "l"},
	{"c1", "cI", "cl", "d"},
	{"0", "O"},
	{"8", "B"},
	{"2", "z", "Z"},
	{"5", "s", "S"},
	{"6", "b"},
}

type rewriteRule struct {
	from string
	to   string
}

// Normalizer collapses confusable sequences into canonical alphabet
// members. It is a pure function of the character set it was derived
// from and its Normalize method is idempotent.
type Normalizer struct {
	rules []rewriteRule
}

// NewNormalizer derives rewrite rules for the given character set.
// For every confusable group the canonical member is the shortest,
// lexicographically smallest member spelled entirely with characters
// from chars; groups without an eligible member contribute no rules
// and their members pass through Normalize unchanged.
func NewNormalizer(chars string) *Normalizer {
	var rules []rewriteRule
	for _, group := range confusableGroups {
		members := append([]string(nil), group...)
		sort.Strings(members)
		sort.SliceStable(members, func(i, j int) bool {
			return len(members[i]) < len(members[j])
		})

		canonical := ""
		for _, m := range members {
			if spelledWith(m, chars) {
				canonical = m
				break
			}
		}
		if canonical == "" {
			continue
		}
		for _, m := range group {
			if m != canonical {
				rules = append(rules, rewriteRule{from: m, to: canonical})
			}
		}
	}

	// Shorter keys and shorter values run first, so a rewrite cannot
	// reintroduce a sequence an earlier rule already handled (for
	// example "cl" becomes "c1" through the 'l' rule before the "c1"
	// rule turns it into "d").
	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if len(a.from) != len(b.from) {
			return len(a.from) < len(b.from)
		}
		if len(a.to) != len(b.to) {
			return len(a.to) < len(b.to)
		}
		return a.from < b.from
	})

	return &Normalizer{rules: rules}
}

func spelledWith(s, chars string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(chars, s[i]) < 0 {
			return false
		}
	}
	return true
}

// Normalize returns s with every confusable sequence replaced by its
// canonical form.
func (n *Normalizer) Normalize(s string) string {
	for _, r := range n.rules {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return s
}

// Replaces reports whether c is a single-character rule key, meaning it
// is a confusable that normalization rewrites into some other member of
// its group.
func (n *Normalizer) Replaces(c byte) bool {
	for _, r := range n.rules {
		if len(r.from) == 1 && r.from[0] == c {
			return true
		}
	}
	return false
}
