package bcm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// ErrSharedPath is returned when Shared is asked for a different file than
// the one already loaded.
var ErrSharedPath = errors.New("bcm: shared cache already loaded from another path")

var shared struct {
	once  sync.Once
	path  string
	cache *Cache
	err   error
}

// Shared loads the cache at path the first time it is called and returns the
// same read-only instance to every later caller in the process.
func Shared(path string, logger zerolog.Logger) (*Cache, error) {
	shared.once.Do(func() {
		shared.path = path
		shared.cache, shared.err = Load(path, logger, quartz.NewReal())
	})
	if shared.err != nil {
		return nil, shared.err
	}
	if shared.path != path {
		return nil, fmt.Errorf("%w: loaded %s, requested %s", ErrSharedPath, shared.path, path)
	}
	return shared.cache, nil
}
