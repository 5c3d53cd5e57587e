// Package tile provides fan-out/barrier primitives for a fixed pool of
// worker contexts modelled after a tile of a multi-core accelerator: one
// supervisor context plus a hardware-fixed number of worker contexts sharing
// the tile's local memory.
//
// Core surface:
// - New: build a Tile with a fixed worker-context count (default 6)
// - Bind/BindRaw: pair a vertex type with a computation ahead of dispatch
// - StartOnAllWorkers: non-blocking fan-out of the bound computation
// - SyncAndStartOnAllWorkers: barrier, then fan-out
// - SyncAllWorkers: block the supervisor until every worker has exited
// - Trap/ExitWorker: non-returning debug trap and explicit worker exit
//
// The vertex object passed to a dispatch call is shared read/write by all
// worker contexts for the duration of one dispatch episode. The primitives
// provide no locking; callers must partition access (typically by worker
// index) to avoid data races, and must not touch worker-written state until
// SyncAllWorkers has returned.
//
// Dispatch primitives are supervisor-side; calling them from inside a bound
// computation is a contract violation and is not checked at runtime.
package tile
