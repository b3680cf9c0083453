package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/matryer/is"
)

type named struct{ name string }

func TestLoadOnce(t *testing.T) {
	is := is.New(t)
	calls := 0
	loader := func() (*named, error) {
		calls++
		return &named{"once"}, nil
	}
	var wg sync.WaitGroup
	results := make([]*named, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obj, err := Load("test-load-once", loader)
			if err == nil {
				results[i] = obj
			}
		}()
	}
	wg.Wait()
	is.Equal(calls, 1)
	for _, r := range results {
		is.True(r == results[0])
	}
}

func TestLoadError(t *testing.T) {
	is := is.New(t)
	boom := errors.New("boom")
	_, err := Load("test-load-error", func() (int, error) {
		return 0, boom
	})
	is.Equal(err, boom)
	// a failed load is not cached
	obj, err := Load("test-load-error", func() (int, error) {
		return 7, nil
	})
	is.NoErr(err)
	is.Equal(obj, 7)
}

func TestLoadWrongType(t *testing.T) {
	is := is.New(t)
	_, err := Load("test-wrong-type", func() (int, error) { return 1, nil })
	is.NoErr(err)
	_, err = Load("test-wrong-type", func() (string, error) { return "x", nil })
	is.True(err != nil)
}

func TestZobristShared(t *testing.T) {
	is := is.New(t)
	z := Zobrist()
	is.True(z.Initialized())
	is.True(z == Zobrist())
}
