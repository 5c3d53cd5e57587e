package harness

import (
	"log/slog"
	"sync"

	"github.com/ib-77/tilesync/pkg/tile"
)

// Harness records breakpoints raised on a tile's worker contexts.
// Safe for concurrent use; workers from one episode may trap concurrently.
type Harness struct {
	log *slog.Logger

	mu    sync.Mutex
	fired []tile.Breakpoint
}

// New builds a harness logging through logger. A nil logger falls back to
// slog.Default().
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.Default()
	}
	return &Harness{log: logger}
}

// Option wires the harness into a tile under construction:
//
//	h := harness.New(nil)
//	t, err := tile.New(h.Option())
func (h *Harness) Option() tile.Option {
	return tile.WithTrapObserver(h.record)
}

func (h *Harness) record(bp tile.Breakpoint) {
	h.mu.Lock()
	h.fired = append(h.fired, bp)
	h.mu.Unlock()

	h.log.Warn("breakpoint fired", "breakpoint", bp.String(), "zone", tile.SyncZoneLocal)
}

// Fired reports the first breakpoint recorded, if any.
func (h *Harness) Fired() (tile.Breakpoint, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.fired) == 0 {
		return 0, false
	}
	return h.fired[0], true
}

// Breakpoints returns every recorded breakpoint in arrival order.
func (h *Harness) Breakpoints() []tile.Breakpoint {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]tile.Breakpoint, len(h.fired))
	copy(out, h.fired)
	return out
}

// Reset clears the recorded breakpoints.
func (h *Harness) Reset() {
	h.mu.Lock()
	h.fired = nil
	h.mu.Unlock()
}

// LogEpisode logs the identity and per-worker statuses of the tile's last
// episode. Call it after a barrier; statuses of a running episode are
// incomplete.
func (h *Harness) LogEpisode(t *tile.Tile) {
	ep, ok := t.LastEpisode()
	if !ok {
		h.log.Info("no episode dispatched yet")
		return
	}

	attrs := []any{
		"episode", ep.ID().String(),
		"created_at", ep.CreatedAt(),
		"statuses", ep.Statuses(),
	}
	if bp, trapped := ep.Trap(); trapped {
		attrs = append(attrs, "trap", bp.String())
	}
	h.log.Info("episode", attrs...)
}
