package urls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"snipr/internal/engine/alias"
)

var ErrRegistrationFailed = errors.New("shortened URL registration failed")

// Registry coordinates find-or-create registration for one unit of
// work (one request). It keeps a target-keyed cache so repeated
// lookups within the request return the same entity, and a pending set
// of entities awaiting commit. It is not safe for concurrent use; each
// request builds its own instance over the shared store, which is the
// sole point of mutual exclusion between requests.
type Registry struct {
	store         Store
	codec         *alias.Codec
	retryLimit    int
	warnThreshold int

	cache   map[string]*TargetURL
	pending []*TargetURL
}

func NewRegistry(store Store, codec *alias.Codec, retryLimit, warnThreshold int) *Registry {
	return &Registry{
		store:         store,
		codec:         codec,
		retryLimit:    retryLimit,
		warnThreshold: warnThreshold,
		cache:         make(map[string]*TargetURL),
	}
}

// GetOrCreate returns the entity registered for target. The
// request-scoped cache is consulted first, then the store; a full miss
// constructs a new pending entity whose alias is assigned at commit
// time. The store read touches committed rows only, so it can never
// flush anything pending.
func (g *Registry) GetOrCreate(ctx context.Context, target string) (*TargetURL, error) {
	if u, ok := g.cache[target]; ok {
		return u, nil
	}

	u, err := g.store.FindByTarget(ctx, target)
	switch {
	case err == nil:
		u.existed = true
		g.cache[target] = u
		return u, nil
	case errors.Is(err, ErrNotFound):
		u = New(target)
		g.pending = append(g.pending, u)
		g.cache[target] = u
		return u, nil
	default:
		return nil, err
	}
}

// CommitPending persists every pending entity. A registration that
// cannot complete abandons the remaining pending set; the caller may
// resubmit safely.
func (g *Registry) CommitPending(ctx context.Context) error {
	defer func() { g.pending = nil }()

	for _, u := range g.pending {
		if err := g.commitOne(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

// commitOne inserts a single entity, drawing a fresh random alias for
// every attempt. An alias collision is recovered by regeneration only,
// never by probing neighbouring integers, so aliases stay uniformly
// distributed over the configured space. A concurrently registered
// target is not a collision: it resolves to the winning row instead of
// burning retries.
func (g *Registry) commitOne(ctx context.Context, u *TargetURL) error {
	collisions := 0
	for {
		a, err := g.codec.Random()
		if err != nil {
			return err
		}
		u.Alias = a
		u.CreatedAt = time.Now().Unix()

		err = g.store.Insert(ctx, u)
		if err == nil {
			if collisions > g.warnThreshold {
				log.Ctx(ctx).Warn().
					Int("collisions", collisions).
					Int("threshold", g.warnThreshold).
					Msg("alias collisions exceeded the warning threshold; the configured alias space may be filling up")
			}
			return nil
		}

		if errors.Is(err, ErrTargetTaken) {
			return g.resolveTargetRace(ctx, u)
		}
		if !errors.Is(err, ErrAliasTaken) {
			return err
		}

		collisions++
		if collisions > g.retryLimit {
			delete(g.cache, u.Target)
			log.Ctx(ctx).Error().
				Int("attempts", collisions).
				Int("retry_limit", g.retryLimit).
				Msg("registration abandoned after repeated alias collisions")
			return fmt.Errorf("%w: retry limit of %d reached", ErrRegistrationFailed, g.retryLimit)
		}
	}
}

// resolveTargetRace handles a concurrent request winning the insert of
// the same target between our lookup and our commit.
func (g *Registry) resolveTargetRace(ctx context.Context, u *TargetURL) error {
	existing, err := g.store.FindByTarget(ctx, u.Target)
	if err != nil {
		return err
	}
	u.Alias = existing.Alias
	u.CreatedAt = existing.CreatedAt
	u.existed = true
	return nil
}
