package tile

const (
	// DefaultWorkerContexts is the worker-context count of one tile when no
	// option overrides it.
	DefaultWorkerContexts = 6

	// MaxWorkerContexts bounds the configurable worker-context count. It
	// matches the hardware model: six worker contexts per tile, indices
	// carried in the three-bit context-identifier field of the status word.
	MaxWorkerContexts = 6
)

// SyncZoneLocal identifies the only synchronization scope this package
// supports: all worker contexts on the current tile. Barrier calls always
// cover the whole zone; there are no partial or sub-tile barriers.
const SyncZoneLocal = "local"

// wsrCtxtIDMask extracts the context-identifier field from a worker status
// word.
const wsrCtxtIDMask uint32 = 0x7

// wsrSupervisorFlag marks a status word that does not belong to any worker
// context. Reading an index through such a word is undefined by contract;
// the flag only exists so the zero Worker is distinguishable in debuggers.
const wsrSupervisorFlag uint32 = 1 << 31
