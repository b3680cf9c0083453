// Package cache holds objects that are expensive to build and safe to share
// read-only between solvers, built once per process.
package cache

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/torus/zobrist"
)

const zobristKey = "zobrist"

var (
	mu      sync.Mutex
	objects = map[string]any{}
)

// Load returns the object cached under key, building it with loadFunc the
// first time it is asked for. A failed build is not cached. Concurrent
// callers wait for the first build.
func Load[T any](key string, loadFunc func() (T, error)) (T, error) {
	mu.Lock()
	defer mu.Unlock()
	if obj, ok := objects[key]; ok {
		t, ok := obj.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("cache key %q holds a %T", key, obj)
		}
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return t, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	t, err := loadFunc()
	if err != nil {
		return t, err
	}
	objects[key] = t
	return t, nil
}

// Zobrist returns the process-wide zobrist keys. Every solver with a
// transposition table hashes with these, so tables built by different
// solvers agree on keys.
func Zobrist() *zobrist.Zobrist {
	z, err := Load(zobristKey, func() (*zobrist.Zobrist, error) {
		z := &zobrist.Zobrist{}
		z.Initialize()
		return z, nil
	})
	if err != nil {
		// only another type stored under zobristKey gets here
		panic(err)
	}
	return z
}
