package tile

import "fmt"

// Worker is the identity of one worker context for the duration of one
// dispatch episode. It is handed to the entry of every started worker and is
// ephemeral: it must not be stored across episodes.
type Worker struct {
	wsr  uint32
	base any
}

// Index returns the worker-context index in [0, N), masked out of the
// context-identifier field of the status word.
func (w Worker) Index() uint32 {
	return w.wsr & wsrCtxtIDMask
}

// VertexAs reinterprets the vertex base carried by the current episode as a
// *V. The dispatch call that started the episode fixes the concrete vertex
// type; asking for any other type is a contract violation and panics. Entries
// produced by Bind resolve the vertex this way on behalf of the computation,
// so only raw entries normally need it.
func VertexAs[V any](w Worker) *V {
	v, ok := w.base.(*V)
	if !ok {
		panic(fmt.Sprintf("tile: vertex base holds %T, not %T", w.base, v))
	}
	return v
}
