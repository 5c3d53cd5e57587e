// Package harness observes a tile from the outside the way an attached
// debugger would: it records which patched breakpoint fired and can log the
// outcome of a dispatch episode.
//
// Usage:
// - New: build a Harness around a *slog.Logger
// - Option: pass to tile.New to wire the harness into the tile's trap hook
// - Fired/Breakpoints: inspect recorded breakpoints
// - LogEpisode: log the last episode's identity and per-worker statuses
//
// The harness is a debugging aid only; the primitives themselves never log.
package harness
