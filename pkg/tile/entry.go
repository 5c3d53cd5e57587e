package tile

// Computation is the unit of work distributed to one worker context: it
// receives the shared vertex and the worker's own index and reports a boolean
// status. The status is recorded per worker and never interpreted or
// aggregated by this package.
type Computation[V any] func(v *V, worker uint32) bool

// Entry is a computation bound to its vertex type ahead of any dispatch.
// The binding is resolved once per call site; workers started from it share
// one trampoline with no per-worker dynamic dispatch.
type Entry[V any] struct {
	fn Computation[V]
}

// Bind pairs a vertex type with a computation. Entries carry the automatic
// epilogue: when the computation returns, the worker context terminates with
// the returned status.
func Bind[V any](fn Computation[V]) Entry[V] {
	if fn == nil {
		panic("tile: Bind with nil computation")
	}
	return Entry[V]{fn: fn}
}

// trampoline is the worker-context entry: it resolves the typed vertex
// handle and the worker index, then invokes the bound computation.
func (e Entry[V]) trampoline(w Worker) bool {
	v := VertexAs[V](w)
	return e.fn(v, w.Index())
}

// RawEntry is a bare worker entry without the automatic epilogue. The
// function must terminate the worker context itself via ExitWorker; falling
// off the end is a contract violation (the worker still terminates, with a
// false status, but no guarantee of that behavior is made).
type RawEntry struct {
	fn func(w Worker)
}

// BindRaw wraps a bare worker entry. Raw entries resolve their own state
// through Worker.Index and VertexAs.
func BindRaw(fn func(w Worker)) RawEntry {
	if fn == nil {
		panic("tile: BindRaw with nil entry")
	}
	return RawEntry{fn: fn}
}

func (e RawEntry) trampoline(w Worker) bool {
	e.fn(w)
	return false
}
