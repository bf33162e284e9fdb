package upload

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPipeline builds a pipeline with a manual scheduler, a fixed
// randomness source (always the minimum increment), and sequential ids.
func newTestPipeline(onComplete CompletedFunc) (*Pipeline, *ManualScheduler) {
	sched := &ManualScheduler{}
	counter := 0
	p := NewPipeline(Config{
		Scheduler: sched,
		Rand:      func(n int) int { return 0 },
		NewID: func() string {
			counter++
			return fmt.Sprintf("item-%d", counter)
		},
		OnComplete: onComplete,
	})
	return p, sched
}

func TestEnqueue_ReportsCount(t *testing.T) {
	p, _ := newTestPipeline(nil)

	added := p.Enqueue([]RawFile{
		{Name: "a.txt", Size: 10, Type: "text/plain"},
		{Name: "b.png", Size: 2048, Type: "image/png"},
	})

	assert.Equal(t, 2, added)

	items := p.Items()
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, StatusReady, item.Status)
		assert.Equal(t, 0, item.Progress)
		assert.False(t, item.Uploaded)
		assert.NotEmpty(t, item.ID)
	}
}

func TestStart_EmptyQueue(t *testing.T) {
	p, _ := newTestPipeline(nil)

	err := p.Start()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	assert.False(t, p.Running())
}

func TestStart_AlreadyRunning(t *testing.T) {
	p, _ := newTestPipeline(nil)
	p.Enqueue([]RawFile{{Name: "a.txt", Size: 10}})

	require.NoError(t, p.Start())
	err := p.Start()
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.True(t, p.Running())
}

func TestDequeue_ReadyItem(t *testing.T) {
	p, _ := newTestPipeline(nil)
	p.Enqueue([]RawFile{{Name: "a.txt"}, {Name: "b.txt"}})

	items := p.Items()
	assert.True(t, p.Dequeue(items[0].ID))
	assert.Len(t, p.Items(), 1)
}

func TestDequeue_Unknown(t *testing.T) {
	p, _ := newTestPipeline(nil)
	p.Enqueue([]RawFile{{Name: "a.txt"}})

	assert.False(t, p.Dequeue("nope"))
	assert.Len(t, p.Items(), 1)
}

func TestDequeue_RejectedWhileUploading(t *testing.T) {
	p, sched := newTestPipeline(nil)
	p.Enqueue([]RawFile{{Name: "a.txt"}})
	require.NoError(t, p.Start())

	// One tick: minimum increment is 5, item is now uploading at 5%.
	require.True(t, sched.Fire())
	items := p.Items()
	require.Equal(t, StatusUploading, items[0].Status)

	assert.False(t, p.Dequeue(items[0].ID))
	assert.Len(t, p.Items(), 1)
}

func TestTick_ProgressAndStates(t *testing.T) {
	p, sched := newTestPipeline(nil)
	p.Enqueue([]RawFile{{Name: "a.txt", Size: 2048, Type: "text/plain"}})
	require.NoError(t, p.Start())

	// Fixed increment of 5 per tick: 19 ticks reach 95, the 20th clamps
	// to 100 and completes the run.
	for tick := 1; tick <= 19; tick++ {
		require.True(t, sched.Fire())
		items := p.Items()
		require.Len(t, items, 1)
		assert.Equal(t, tick*5, items[0].Progress)
		assert.Equal(t, StatusUploading, items[0].Status)
		assert.False(t, items[0].Uploaded)
	}

	require.True(t, sched.Fire())
	assert.False(t, p.Running())
	assert.Empty(t, p.Items(), "completed batch leaves the queue")
}

func TestRun_CompletesBatchAtomically(t *testing.T) {
	var completed []Item
	p, sched := newTestPipeline(func(items []Item) { completed = items })

	// Random increments; the run still only ends when every item is done.
	seq := []int{9, 0, 4, 2, 7, 1, 9, 9, 0, 3}
	calls := 0
	p.cfg.Rand = func(n int) int {
		v := seq[calls%len(seq)]
		calls++
		return v % n
	}

	p.Enqueue([]RawFile{
		{Name: "small.txt", Size: 64, Type: "text/plain"},
		{Name: "big.bin", Size: 1 << 20, Type: "application/octet-stream"},
		{Name: "pic.jpg", Size: 4096, Type: "image/jpeg"},
	})
	require.NoError(t, p.Start())

	for ticks := 0; p.Running(); ticks++ {
		require.Less(t, ticks, 100, "run must terminate")

		// No reader may observe a half-advanced batch: after any tick the
		// spread between the least and most advanced unfinished items stays
		// within one maximum increment step per elapsed tick.
		require.True(t, sched.Fire())
		for _, item := range p.Items() {
			assert.LessOrEqual(t, item.Progress, 100)
		}
	}

	require.Len(t, completed, 3)
	for _, item := range completed {
		assert.Equal(t, 100, item.Progress)
		assert.Equal(t, StatusComplete, item.Status)
		assert.True(t, item.Uploaded)
	}
	assert.Empty(t, p.Items())
}

func TestOnComplete_ReceivesAllItemsOnce(t *testing.T) {
	deliveries := 0
	var got []Item
	p, sched := newTestPipeline(func(items []Item) {
		deliveries++
		got = items
	})

	p.Enqueue([]RawFile{{Name: "a.txt", Size: 1}, {Name: "b.txt", Size: 2}})
	require.NoError(t, p.Start())

	for p.Running() {
		require.True(t, sched.Fire())
	}

	assert.Equal(t, 1, deliveries)
	require.Len(t, got, 2)
	assert.Equal(t, "a.txt", got[0].Name)
	assert.Equal(t, "b.txt", got[1].Name)
}

func TestStart_AllowedAgainAfterCompletion(t *testing.T) {
	p, sched := newTestPipeline(nil)
	p.Enqueue([]RawFile{{Name: "a.txt"}})
	require.NoError(t, p.Start())
	for p.Running() {
		require.True(t, sched.Fire())
	}

	// Queue is empty now; a new enqueue and run must work.
	p.Enqueue([]RawFile{{Name: "b.txt"}})
	require.NoError(t, p.Start())
	for p.Running() {
		require.True(t, sched.Fire())
	}
	assert.Empty(t, p.Items())
}

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline(Config{})

	assert.Equal(t, defaultInterval, p.cfg.Interval)
	assert.Equal(t, defaultMinIncrement, p.cfg.MinIncrement)
	assert.Equal(t, defaultMaxIncrement, p.cfg.MaxIncrement)
	assert.NotNil(t, p.cfg.Scheduler)
	assert.NotNil(t, p.cfg.Rand)
	assert.NotNil(t, p.cfg.NewID)
}
