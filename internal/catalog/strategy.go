package catalog

import (
	"context"

	"github.com/rs/zerolog/log"
)

// strategy is one attempt in an ordered fallback chain. Chains are plain
// data so the attempt order is visible in one place and each failure is
// logged uniformly.
type strategy[T any] struct {
	name  string
	fetch func(context.Context) ([]T, error)
}

// fetchFirst walks the chain and returns the first non-empty result. The
// final strategy's result is accepted even when empty; an error from the
// last attempt (or from every attempt) is returned to the caller.
func fetchFirst[T any](ctx context.Context, kind string, strategies []strategy[T]) ([]T, error) {
	var lastErr error

	for i, s := range strategies {
		list, err := s.fetch(ctx)
		if err != nil {
			lastErr = err
			log.Debug().Err(err).Str("kind", kind).Str("strategy", s.name).
				Msg("fetch attempt failed")
			continue
		}

		if len(list) > 0 || i == len(strategies)-1 {
			return list, nil
		}

		log.Debug().Str("kind", kind).Str("strategy", s.name).
			Msg("fetch attempt returned an empty list")
	}

	return nil, lastErr
}
