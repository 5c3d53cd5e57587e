package tile

// SupervisorFunc declares that a function targets the supervisor execution
// context. It is an annotation only and carries no runtime behavior: a
// SupervisorFunc may issue dispatch and barrier calls and owns the vertex
// object between episodes.
type SupervisorFunc func(t *Tile)

// WorkerFunc declares that a function targets a worker execution context.
// It is an annotation only and carries no runtime behavior: a WorkerFunc may
// read the worker identity accessors and terminate via ExitWorker, and must
// never issue dispatch or barrier calls.
type WorkerFunc func(w Worker) bool
