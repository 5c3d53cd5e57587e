package tile

import (
	"fmt"
	"sync"
)

// job is one posted worker run: the trampoline, the vertex base it resolves,
// and the episode it reports into.
type job struct {
	run     func(Worker) bool
	base    any
	episode *episodeState
}

// lane is one worker context: a goroutine fed through a single-slot mailbox.
// Fan-out posts into the slot without blocking; a job left untaken when the
// next one arrives is abandoned, which only happens when the caller breaks
// the dispatch/barrier contract.
type lane struct {
	mu     sync.Mutex
	cond   *sync.Cond
	slot   *job
	closed bool
	wsr    uint32
}

func newLane(index uint32) *lane {
	l := &lane{wsr: index & wsrCtxtIDMask}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *lane) index() uint32 {
	return l.wsr & wsrCtxtIDMask
}

// post places a job in the mailbox and wakes the lane. It returns the job it
// displaced: the previous untaken job, or j itself if the lane is closed.
func (l *lane) post(j *job) (dropped *job) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return j
	}

	dropped = l.slot
	l.slot = j
	l.cond.Signal()
	return dropped
}

// take blocks until a job is posted or the lane is closed. A pending job is
// drained even after close; nil means the lane should exit.
func (l *lane) take() *job {
	l.mu.Lock()
	defer l.mu.Unlock()

	for l.slot == nil && !l.closed {
		l.cond.Wait()
	}

	j := l.slot
	l.slot = nil
	return j
}

func (l *lane) close() {
	l.mu.Lock()
	l.closed = true
	l.cond.Broadcast()
	l.mu.Unlock()
}

// Tile is one compute tile: a supervisor-facing handle over a fixed count of
// worker contexts. The methods and the package-level dispatch functions that
// take a *Tile are supervisor-side; bound computations run on the tile's
// worker contexts.
type Tile struct {
	lanes []*lane

	mu          sync.Mutex
	quiet       *sync.Cond
	outstanding int
	current     *episodeState

	trapObserver func(Breakpoint)

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New builds a tile and starts its worker contexts. The worker-context count
// is fixed for the tile's lifetime.
func New(opts ...Option) (*Tile, error) {
	cfg := config{workers: DefaultWorkerContexts}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.workers < 1 || cfg.workers > MaxWorkerContexts {
		return nil, fmt.Errorf("%w: %d", ErrWorkerContextCount, cfg.workers)
	}

	t := &Tile{trapObserver: cfg.trapObserver}
	t.quiet = sync.NewCond(&t.mu)

	t.lanes = make([]*lane, cfg.workers)
	for i := range t.lanes {
		t.lanes[i] = newLane(uint32(i))
	}

	t.wg.Add(len(t.lanes))
	for _, l := range t.lanes {
		go t.laneLoop(l)
	}

	return t, nil
}

// WorkerContexts returns the tile's fixed worker-context count.
func (t *Tile) WorkerContexts() int {
	return len(t.lanes)
}

// SyncAllWorkers blocks the supervisor until every worker context in the
// local sync zone has terminated. It is the only way to observe worker
// completion; there is no per-worker join. Every worker's termination
// happens before SyncAllWorkers returns.
func (t *Tile) SyncAllWorkers() {
	t.mu.Lock()
	for t.outstanding > 0 {
		t.quiet.Wait()
	}
	t.mu.Unlock()
}

// LastEpisode returns a snapshot of the most recently dispatched episode.
// Statuses are complete only after SyncAllWorkers has returned.
func (t *Tile) LastEpisode() (Episode, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return Episode{}, false
	}
	return t.current.snapshot(), true
}

// Close shuts the tile's worker contexts down after any in-flight jobs have
// drained. Dispatching on a closed tile records every worker of the episode
// as terminated with a false status.
func (t *Tile) Close() {
	t.closeOnce.Do(func() {
		for _, l := range t.lanes {
			l.close()
		}
		t.wg.Wait()
	})
}

// fanOut posts one trampoline to every lane. Non-blocking: the supervisor
// never waits for a worker here. Posting happens before the lane invokes the
// trampoline (the mailbox mutex carries the edge).
func (t *Tile) fanOut(run func(Worker) bool, base any) {
	ep := newEpisodeState(len(t.lanes))

	t.mu.Lock()
	t.current = ep
	t.outstanding += len(t.lanes)
	t.mu.Unlock()

	for _, l := range t.lanes {
		j := &job{run: run, base: base, episode: ep}
		if dropped := l.post(j); dropped != nil {
			// Overlapping episodes (a dispatch without the intervening
			// barrier) or a closed tile. The displaced job never runs.
			t.jobDone(dropped.episode, l.index(), false)
		}
	}
}

func (t *Tile) laneLoop(l *lane) {
	defer t.wg.Done()
	for {
		j := l.take()
		if j == nil {
			return
		}
		status := t.invoke(l, j)
		t.jobDone(j.episode, l.index(), status)
	}
}

// invoke runs one trampoline on the lane's context, turning ExitWorker and
// Trap terminations into a recorded outcome. Any other panic is a bug in the
// computation and propagates.
func (t *Tile) invoke(l *lane, j *job) (status bool) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case workerExitSignal:
			status = false
		case *TrapError:
			t.recordTrap(j.episode, r)
			status = false
		default:
			panic(r)
		}
	}()

	return j.run(Worker{wsr: l.wsr, base: j.base})
}

func (t *Tile) jobDone(ep *episodeState, index uint32, status bool) {
	t.mu.Lock()
	ep.statuses[index] = status
	ep.done[index] = true
	t.outstanding--
	if t.outstanding == 0 {
		t.quiet.Broadcast()
	}
	t.mu.Unlock()
}

func (t *Tile) recordTrap(ep *episodeState, trap *TrapError) {
	t.mu.Lock()
	if ep.trap == nil {
		ep.trap = trap
	}
	observer := t.trapObserver
	t.mu.Unlock()

	if observer != nil {
		observer(trap.Breakpoint)
	}
}

// StartOnAllWorkers issues the fan-out: every worker context on the tile
// begins executing the bound computation against vertex, concurrently and in
// no defined order relative to its peers. It returns immediately without
// waiting for any worker. The vertex is shared read/write by all workers
// until the next SyncAllWorkers returns; the caller partitions access.
func StartOnAllWorkers[V any](t *Tile, e Entry[V], vertex *V) {
	t.fanOut(e.trampoline, vertex)
}

// SyncAndStartOnAllWorkers waits for every worker context of the previous
// episode to terminate, then issues the fan-out. Use it to keep two episodes
// from racing on the vertex object.
func SyncAndStartOnAllWorkers[V any](t *Tile, e Entry[V], vertex *V) {
	t.SyncAllWorkers()
	t.fanOut(e.trampoline, vertex)
}

// StartRawOnAllWorkers fans a raw entry out to every worker context. The
// entry resolves its own state through the identity accessors and must
// terminate via ExitWorker.
func StartRawOnAllWorkers(t *Tile, e RawEntry, base any) {
	t.fanOut(e.trampoline, base)
}
