// Package urls holds the shortened-URL entity, its sqlite persistence
// and the per-request registration flow that assigns random aliases
// while tolerating collisions.
package urls

import (
	"strings"

	"snipr/internal/engine/alias"
)

// MaxTargetLength bounds stored target addresses and matches the
// de-facto maximum URL length browsers accept.
const MaxTargetLength = 2083

// TargetURL associates a destination address with its alias. The alias
// is the primary key; the target is unique across all rows. Rows are
// never mutated after a successful commit.
type TargetURL struct {
	Alias     *alias.Alias
	Target    string
	CreatedAt int64

	shortURL   string
	previewURL string
	existed    bool
}

// New constructs a pending entity. The alias is assigned during
// registration, not here.
func New(target string) *TargetURL {
	return &TargetURL{Target: target}
}

func (u *TargetURL) String() string { return u.Target }

// Existed reports whether the target was already registered before the
// current request, including when a concurrent request won the insert.
func (u *TargetURL) Existed() bool { return u.existed }

// ShortURL derives the public short address from the configured base
// endpoint. The result is cached on the entity.
func (u *TargetURL) ShortURL(baseURL string) string {
	if u.shortURL == "" {
		u.shortURL = joinBase(baseURL, u.Alias.String())
	}
	return u.shortURL
}

// PreviewURL derives the address of the preview page for this entity.
func (u *TargetURL) PreviewURL(baseURL string) string {
	if u.previewURL == "" {
		u.previewURL = joinBase(baseURL, "preview/"+u.Alias.String())
	}
	return u.previewURL
}

func joinBase(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + path
}
