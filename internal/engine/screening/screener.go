// Package screening classifies submitted URLs against spam and
// blacklist sources before they are shortened. Matching algorithms are
// the sources' own business; this package only asks "did anything
// match, and which source said so".
package screening

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Match reports that a URL matched a blacklist, tagged with the name
// of the source that produced it.
type Match struct {
	Source string
	URL    string
}

// URLTester checks URLs against one spam or blacklist source.
type URLTester interface {
	Name() string
	LookupMatching(ctx context.Context, urls []string) ([]Match, error)
}

// Screener runs a chain of URL testers, skipping hosts on the
// whitelist, and maps each source to the validation message shown to
// the submitter. A tester that fails (an unreachable DNS zone, an API
// outage) is logged and skipped rather than blocking submissions.
type Screener struct {
	testers        []URLTester
	whitelist      *HostCollection // may be nil
	messages       map[string]string
	defaultMessage string
}

func NewScreener(whitelist *HostCollection, defaultMessage string, testers ...URLTester) *Screener {
	return &Screener{
		testers:        testers,
		whitelist:      whitelist,
		messages:       make(map[string]string),
		defaultMessage: defaultMessage,
	}
}

// Prepend puts a tester at the front of the chain, optionally with a
// source-specific message; an empty message keeps the default.
func (s *Screener) Prepend(t URLTester, message string) {
	s.testers = append([]URLTester{t}, s.testers...)
	if message != "" {
		s.messages[t.Name()] = message
	}
}

// SetMessage associates a validation message with a source name.
func (s *Screener) SetMessage(source, message string) {
	s.messages[source] = message
}

// MessageIfBlacklisted returns the message for the first source the
// URL matches, or the empty string when it is clean.
func (s *Screener) MessageIfBlacklisted(ctx context.Context, rawURL string) string {
	if s.whitelist != nil {
		if matches, err := s.whitelist.LookupMatching(ctx, []string{rawURL}); err == nil && len(matches) > 0 {
			return ""
		}
	}

	for _, t := range s.testers {
		matches, err := t.LookupMatching(ctx, []string{rawURL})
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("source", t.Name()).
				Msg("blacklist source unavailable, skipping it")
			continue
		}
		if len(matches) == 0 {
			continue
		}
		if msg, ok := s.messages[matches[0].Source]; ok {
			return msg
		}
		return s.defaultMessage
	}
	return ""
}
