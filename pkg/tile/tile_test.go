package tile_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/tilesync/pkg/tile"
)

type countVertex struct {
	hits [tile.MaxWorkerContexts]atomic.Uint32
}

func (v *countVertex) count(worker uint32) bool {
	v.hits[worker].Add(1)
	return true
}

func TestStartOnAllWorkers_EachIndexExactlyOnce(t *testing.T) {
	for n := 1; n <= tile.MaxWorkerContexts; n++ {
		n := n
		t.Run(fmt.Sprintf("workers_%d", n), func(t *testing.T) {
			t.Parallel()

			tl, err := tile.New(tile.WithWorkerContexts(n))
			require.NoError(t, err)
			defer tl.Close()

			v := &countVertex{}
			tile.StartOnAllWorkers(tl, tile.Bind((*countVertex).count), v)
			tl.SyncAllWorkers()

			for i := 0; i < n; i++ {
				assert.Equal(t, uint32(1), v.hits[i].Load(), "worker index %d", i)
			}
			for i := n; i < tile.MaxWorkerContexts; i++ {
				assert.Zero(t, v.hits[i].Load(), "index %d beyond worker count", i)
			}
		})
	}
}

type flagVertex struct {
	flags [tile.MaxWorkerContexts]atomic.Bool
}

func (v *flagVertex) finish(worker uint32) bool {
	// Uneven completion order; the barrier must still cover the slowest.
	time.Sleep(time.Duration(worker+1) * time.Millisecond)
	v.flags[worker].Store(true)
	return true
}

func TestSyncAllWorkers_NoEarlyRelease(t *testing.T) {
	t.Parallel()

	tl, err := tile.New()
	require.NoError(t, err)
	defer tl.Close()

	v := &flagVertex{}
	tile.StartOnAllWorkers(tl, tile.Bind((*flagVertex).finish), v)
	tl.SyncAllWorkers()

	for i := 0; i < tl.WorkerContexts(); i++ {
		assert.True(t, v.flags[i].Load(), "worker %d flag unset after barrier", i)
	}
}

func TestSyncAllWorkers_IdleTileReturnsImmediately(t *testing.T) {
	t.Parallel()

	tl, err := tile.New()
	require.NoError(t, err)
	defer tl.Close()

	tl.SyncAllWorkers()
	tl.SyncAllWorkers()
}

type episodeVertex struct {
	phase    [tile.MaxWorkerContexts]atomic.Uint32
	observed [tile.MaxWorkerContexts]atomic.Uint32
}

func (v *episodeVertex) first(worker uint32) bool {
	time.Sleep(2 * time.Millisecond)
	v.phase[worker].Store(1)
	return true
}

func (v *episodeVertex) second(worker uint32) bool {
	v.observed[worker].Store(v.phase[worker].Load())
	return true
}

func TestSyncAndStartOnAllWorkers_EpisodesDoNotInterleave(t *testing.T) {
	t.Parallel()

	tl, err := tile.New()
	require.NoError(t, err)
	defer tl.Close()

	v := &episodeVertex{}
	tile.StartOnAllWorkers(tl, tile.Bind((*episodeVertex).first), v)
	tile.SyncAndStartOnAllWorkers(tl, tile.Bind((*episodeVertex).second), v)
	tl.SyncAllWorkers()

	for i := 0; i < tl.WorkerContexts(); i++ {
		assert.Equal(t, uint32(1), v.observed[i].Load(),
			"episode B worker %d saw episode A still running", i)
	}
}

type scaleVertex struct {
	out [tile.DefaultWorkerContexts]float64
}

func (v *scaleVertex) scale(worker uint32) bool {
	v.out[worker] = float64(worker) * 42.0
	return true
}

func TestVectorScaleScenario(t *testing.T) {
	t.Parallel()

	tl, err := tile.New()
	require.NoError(t, err)
	defer tl.Close()

	v := &scaleVertex{}
	tile.StartOnAllWorkers(tl, tile.Bind((*scaleVertex).scale), v)
	tl.SyncAllWorkers()

	for i := range v.out {
		assert.Equal(t, float64(i)*42.0, v.out[i])
	}
}

type statusVertex struct {
	ran [tile.MaxWorkerContexts]atomic.Bool
}

func (v *statusVertex) flaky(worker uint32) bool {
	v.ran[worker].Store(true)
	return worker != 3
}

func TestFalseStatusIsRecordedNotInterpreted(t *testing.T) {
	t.Parallel()

	tl, err := tile.New()
	require.NoError(t, err)
	defer tl.Close()

	v := &statusVertex{}
	tile.StartOnAllWorkers(tl, tile.Bind((*statusVertex).flaky), v)
	tl.SyncAllWorkers()

	// No implicit abort: every worker ran to completion.
	for i := 0; i < tl.WorkerContexts(); i++ {
		assert.True(t, v.ran[i].Load(), "worker %d did not complete", i)
	}

	ep, ok := tl.LastEpisode()
	require.True(t, ok)
	statuses := ep.Statuses()
	require.Len(t, statuses, tl.WorkerContexts())
	for i, status := range statuses {
		assert.True(t, ep.Done(uint32(i)))
		if i == 3 {
			assert.False(t, status)
		} else {
			assert.True(t, status)
		}
	}
}

func TestLastEpisode_IdentityPerDispatch(t *testing.T) {
	t.Parallel()

	tl, err := tile.New(tile.WithWorkerContexts(2))
	require.NoError(t, err)
	defer tl.Close()

	_, ok := tl.LastEpisode()
	assert.False(t, ok)

	v := &countVertex{}
	e := tile.Bind((*countVertex).count)

	tile.StartOnAllWorkers(tl, e, v)
	tl.SyncAllWorkers()
	first, ok := tl.LastEpisode()
	require.True(t, ok)
	assert.False(t, first.CreatedAt().IsZero())

	tile.SyncAndStartOnAllWorkers(tl, e, v)
	tl.SyncAllWorkers()
	second, ok := tl.LastEpisode()
	require.True(t, ok)

	assert.NotEqual(t, first.ID(), second.ID())
}

type slowVertex struct {
	runs atomic.Uint32
}

func (v *slowVertex) slow(worker uint32) bool {
	time.Sleep(5 * time.Millisecond)
	v.runs.Add(1)
	return true
}

// Dispatching again without the intervening barrier is a caller error; the
// episodes may interleave on the vertex, but the barrier must still drain.
func TestOverlappingDispatchStillDrains(t *testing.T) {
	t.Parallel()

	tl, err := tile.New(tile.WithWorkerContexts(2))
	require.NoError(t, err)
	defer tl.Close()

	v := &slowVertex{}
	e := tile.Bind((*slowVertex).slow)
	tile.StartOnAllWorkers(tl, e, v)
	tile.StartOnAllWorkers(tl, e, v)
	tl.SyncAllWorkers()

	runs := v.runs.Load()
	assert.GreaterOrEqual(t, runs, uint32(tl.WorkerContexts()))
	assert.LessOrEqual(t, runs, uint32(2*tl.WorkerContexts()))
}

func TestNew_WorkerContextCountValidation(t *testing.T) {
	t.Parallel()

	for _, n := range []int{-1, 0, tile.MaxWorkerContexts + 1} {
		_, err := tile.New(tile.WithWorkerContexts(n))
		require.ErrorIs(t, err, tile.ErrWorkerContextCount, "count %d", n)
	}

	tl, err := tile.New(tile.WithWorkerContexts(3))
	require.NoError(t, err)
	defer tl.Close()
	assert.Equal(t, 3, tl.WorkerContexts())

	def, err := tile.New()
	require.NoError(t, err)
	defer def.Close()
	assert.Equal(t, tile.DefaultWorkerContexts, def.WorkerContexts())
}

type rawVertex struct {
	seen [tile.MaxWorkerContexts]atomic.Bool
}

func TestRawEntry_IdentityAccessors(t *testing.T) {
	t.Parallel()

	tl, err := tile.New()
	require.NoError(t, err)
	defer tl.Close()

	entry := tile.BindRaw(func(w tile.Worker) {
		v := tile.VertexAs[rawVertex](w)
		v.seen[w.Index()].Store(true)
		tile.ExitWorker()
	})

	v := &rawVertex{}
	tile.StartRawOnAllWorkers(tl, entry, v)
	tl.SyncAllWorkers()

	for i := 0; i < tl.WorkerContexts(); i++ {
		assert.True(t, v.seen[i].Load(), "worker %d never resolved its identity", i)
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	tl, err := tile.New(tile.WithWorkerContexts(1))
	require.NoError(t, err)

	v := &countVertex{}
	tile.StartOnAllWorkers(tl, tile.Bind((*countVertex).count), v)
	tl.SyncAllWorkers()

	tl.Close()
	tl.Close()
}
