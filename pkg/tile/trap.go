package tile

import "fmt"

// Breakpoint selects which of the tile's patched breakpoints a Trap call
// raises.
type Breakpoint uint8

const (
	PBRK0 Breakpoint = iota
	PBRK1
)

func (b Breakpoint) String() string {
	return fmt.Sprintf("PBRK%d", uint8(b))
}

// TrapError is the value a Trap call panics with. A worker-context trap is
// surrendered to the tile's episode record so an external debug harness can
// observe which breakpoint fired; a supervisor-context trap propagates to
// the supervisor's caller.
type TrapError struct {
	Breakpoint Breakpoint
}

func (e *TrapError) Error() string {
	return "tile: trap " + e.Breakpoint.String()
}

// Trap raises a breakpoint exception. It never returns and is callable from
// either execution context. It is a debugging aid, not an error-signaling
// mechanism: a computation that wants to report failure returns false.
func Trap(bp Breakpoint) {
	panic(&TrapError{Breakpoint: bp})
}

// workerExitSignal is the panic value ExitWorker terminates a worker
// context with. It never escapes the lane loop.
type workerExitSignal struct{}

// ExitWorker terminates the calling worker context immediately. It is needed
// only inside raw entries, which lack the automatic epilogue of entries
// produced by Bind. It never returns; the worker's status is recorded as
// false. Calling it from the supervisor context is a contract violation.
func ExitWorker() {
	panic(workerExitSignal{})
}
