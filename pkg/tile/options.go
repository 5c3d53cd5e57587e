package tile

import "errors"

var ErrWorkerContextCount = errors.New("tile: worker context count out of range")

type config struct {
	workers      int
	trapObserver func(Breakpoint)
}

type Option func(*config)

// WithWorkerContexts fixes the tile's worker-context count. Valid counts are
// 1 through MaxWorkerContexts; the count cannot change after construction.
func WithWorkerContexts(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithTrapObserver installs a hook invoked whenever a worker context raises
// a breakpoint via Trap. Intended for debug harnesses; the hook must not
// call back into dispatch or barrier primitives.
func WithTrapObserver(fn func(Breakpoint)) Option {
	return func(c *config) {
		c.trapObserver = fn
	}
}
