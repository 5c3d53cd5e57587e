package tile

import (
	"time"

	"github.com/google/uuid"
)

// episodeState is the live record of one dispatch episode. It is mutated by
// lanes under the tile mutex as workers terminate.
type episodeState struct {
	id        uuid.UUID
	createdAt time.Time
	statuses  []bool
	done      []bool
	trap      *TrapError
}

func newEpisodeState(workers int) *episodeState {
	return &episodeState{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		statuses:  make([]bool, workers),
		done:      make([]bool, workers),
	}
}

// Episode is an immutable snapshot of one dispatch episode's outcome. A
// snapshot taken before SyncAllWorkers has returned may show workers that
// have not terminated yet.
type Episode struct {
	id        uuid.UUID
	createdAt time.Time
	statuses  []bool
	done      []bool
	trap      *TrapError
}

func (e Episode) ID() uuid.UUID {
	return e.id
}

func (e Episode) CreatedAt() time.Time {
	return e.createdAt
}

// Statuses returns the boolean status each worker terminated with, indexed
// by worker index. The package records these and nothing more: a false
// status triggers no abort, retry, or aggregation.
func (e Episode) Statuses() []bool {
	out := make([]bool, len(e.statuses))
	copy(out, e.statuses)
	return out
}

// Done reports whether the worker at index terminated during this episode.
func (e Episode) Done(index uint32) bool {
	if int(index) >= len(e.done) {
		return false
	}
	return e.done[index]
}

// Trap reports the first breakpoint a worker context raised during this
// episode, if any.
func (e Episode) Trap() (Breakpoint, bool) {
	if e.trap == nil {
		return 0, false
	}
	return e.trap.Breakpoint, true
}

func (s *episodeState) snapshot() Episode {
	ep := Episode{
		id:        s.id,
		createdAt: s.createdAt,
		statuses:  make([]bool, len(s.statuses)),
		done:      make([]bool, len(s.done)),
		trap:      s.trap,
	}
	copy(ep.statuses, s.statuses)
	copy(ep.done, s.done)
	return ep
}
