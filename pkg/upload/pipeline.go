// Package upload implements the transient upload pipeline: a staging queue
// that simulates transfer progress before items become permanent file
// entries in the vault.
//
// The pipeline is an explicit state machine advanced by a Scheduler. The
// default scheduler ticks on a wall-clock timer; tests inject a manual
// scheduler and a fixed randomness source to advance progress
// deterministically.
package upload

import (
	"errors"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a queued upload item.
//
// Items move ready → uploading → complete. Complete is terminal; there is
// no failure state — every queued item eventually completes.
type Status string

const (
	// StatusReady marks an item queued but not yet started
	StatusReady Status = "ready"

	// StatusUploading marks an item with simulated transfer in flight
	StatusUploading Status = "uploading"

	// StatusComplete marks an item whose progress reached 100
	StatusComplete Status = "complete"
)

var (
	// ErrQueueEmpty is reported by Start when there is nothing to upload.
	ErrQueueEmpty = errors.New("no files to upload")

	// ErrAlreadyRunning is reported by Start while a run is in progress.
	ErrAlreadyRunning = errors.New("upload already in progress")
)

// RawFile is an incoming file handed to the pipeline by the caller.
// The payload handle is carried through untouched; the pipeline never
// reads it (no real transfer happens).
type RawFile struct {
	Name    string
	Size    int64
	Type    string
	Payload io.Reader
}

// Item is one entry in the transient upload queue.
type Item struct {
	// ID is the unique identifier of the queued item
	ID string

	// Name, Size, and Type mirror the enqueued raw file
	Name string
	Size int64
	Type string

	// Progress is the simulated transfer progress, 0-100
	Progress int

	// Status is the lifecycle state derived from progress
	Status Status

	// Uploaded mirrors Status == StatusComplete
	Uploaded bool

	// Payload is the raw payload handle carried from the RawFile
	Payload io.Reader
}

// CompletedFunc receives the finished items of a run, exactly once, when
// every queued item has reached progress 100. The items have already been
// removed from the queue when the callback fires.
type CompletedFunc func(items []Item)

// Scheduler drives the repeating progress tick.
//
// Schedule begins invoking tick at the given interval and returns a stop
// function. Implementations must guarantee ticks never overlap: each tick
// runs to completion before the next starts. The stop function must be
// safe to call from inside a tick and idempotent.
type Scheduler interface {
	Schedule(interval time.Duration, tick func()) (stop func())
}

// TimerScheduler is the default wall-clock Scheduler backed by time.Ticker.
type TimerScheduler struct{}

// Schedule invokes tick on a dedicated goroutine at the given interval
// until the returned stop function is called.
func (TimerScheduler) Schedule(interval time.Duration, tick func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tick()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// ManualScheduler is a Scheduler advanced explicitly by tests.
//
// After Schedule has been called, each Fire invokes one tick synchronously.
// Fire after stop is a no-op.
type ManualScheduler struct {
	mu   sync.Mutex
	tick func()
}

// Schedule records the tick function; the interval is ignored.
func (s *ManualScheduler) Schedule(_ time.Duration, tick func()) func() {
	s.mu.Lock()
	s.tick = tick
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.tick = nil
		s.mu.Unlock()
	}
}

// Fire runs one tick synchronously. Returns false if nothing is scheduled.
func (s *ManualScheduler) Fire() bool {
	s.mu.Lock()
	tick := s.tick
	s.mu.Unlock()

	if tick == nil {
		return false
	}
	tick()
	return true
}

// IntN returns a uniform random int in [0, n). Injectable for reproducible
// progress increments in tests.
type IntN func(n int) int

// Config configures a Pipeline. Zero values fall back to the defaults
// used by the original uploader: 500ms ticks and increments in [5, 14].
type Config struct {
	// Interval is the delay between progress ticks
	Interval time.Duration

	// MinIncrement and MaxIncrement bound the per-tick progress step
	// (inclusive on both ends)
	MinIncrement int
	MaxIncrement int

	// Scheduler drives ticks; defaults to TimerScheduler
	Scheduler Scheduler

	// Rand supplies randomness for increments; defaults to math/rand
	Rand IntN

	// NewID generates item ids; defaults to UUID v4 strings
	NewID func() string

	// OnComplete receives the finished items when a run ends
	OnComplete CompletedFunc
}

const (
	defaultInterval     = 500 * time.Millisecond
	defaultMinIncrement = 5
	defaultMaxIncrement = 14
)

// Pipeline is the transient upload queue and progress state machine.
//
// Concurrency model: a single mutex guards the queue. Every tick advances
// the whole batch under the lock, so observers never see a partially
// advanced tick. The completion callback and scheduler stop run outside
// the lock to keep the sink free to call back into the pipeline's owner.
type Pipeline struct {
	mu      sync.Mutex
	cfg     Config
	items   []*Item
	running bool
	stop    func()
}

// NewPipeline creates a pipeline with the given configuration, applying
// defaults for any zero fields.
func NewPipeline(cfg Config) *Pipeline {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.MinIncrement <= 0 {
		cfg.MinIncrement = defaultMinIncrement
	}
	if cfg.MaxIncrement < cfg.MinIncrement {
		cfg.MaxIncrement = defaultMaxIncrement
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler{}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Intn
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	return &Pipeline{cfg: cfg}
}

// Enqueue appends the raw files to the queue as ready items and reports
// how many were added. Items can be enqueued while a run is active; they
// join the current batch on the next tick.
func (p *Pipeline) Enqueue(files []RawFile) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, f := range files {
		p.items = append(p.items, &Item{
			ID:      p.cfg.NewID(),
			Name:    f.Name,
			Size:    f.Size,
			Type:    f.Type,
			Status:  StatusReady,
			Payload: f.Payload,
		})
	}
	return len(files)
}

// Dequeue removes a queued item by id.
//
// Removal is permitted only while the item is not uploading; there is no
// cancel mid-flight. Requests against an uploading or unknown id are
// rejected silently. Returns whether an item was removed.
func (p *Pipeline) Dequeue(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, item := range p.items {
		if item.ID != id {
			continue
		}
		if item.Status == StatusUploading {
			return false
		}
		p.items = append(p.items[:i], p.items[i+1:]...)
		return true
	}
	return false
}

// Items returns a snapshot of the queue in enqueue order.
func (p *Pipeline) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := make([]Item, len(p.items))
	for i, item := range p.items {
		snapshot[i] = *item
	}
	return snapshot
}

// Running reports whether a run is active.
func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Start begins a run: a repeating tick that advances every queued item
// until the whole batch reaches progress 100, then hands the completed
// items to OnComplete and clears the queue.
//
// Start reports ErrQueueEmpty when nothing is queued and ErrAlreadyRunning
// while a run is active; neither changes any state.
func (p *Pipeline) Start() error {
	p.mu.Lock()

	if len(p.items) == 0 {
		p.mu.Unlock()
		return ErrQueueEmpty
	}
	if p.running {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}

	p.running = true
	p.mu.Unlock()

	// Schedule outside the lock: the scheduler may fire synchronously.
	stop := p.cfg.Scheduler.Schedule(p.cfg.Interval, p.tick)

	p.mu.Lock()
	if p.running {
		p.stop = stop
		p.mu.Unlock()
		return nil
	}
	// The whole batch finished before Schedule returned (synchronous
	// scheduler); the stop handle was not yet recorded, so stop here.
	p.mu.Unlock()
	stop()
	return nil
}

// tick advances the whole batch by one step.
//
// Every item below 100 receives one random increment in
// [MinIncrement, MaxIncrement], transitions to uploading, and flips to
// complete when progress clamps to 100. When every item has reached 100
// the run ends: the queue is cleared and the batch goes to OnComplete.
func (p *Pipeline) tick() {
	p.mu.Lock()

	allDone := true
	for _, item := range p.items {
		if item.Progress < 100 {
			span := p.cfg.MaxIncrement - p.cfg.MinIncrement + 1
			item.Progress += p.cfg.MinIncrement + p.cfg.Rand(span)
			if item.Progress >= 100 {
				item.Progress = 100
				item.Status = StatusComplete
				item.Uploaded = true
			} else {
				item.Status = StatusUploading
			}
		}
		if item.Progress < 100 {
			allDone = false
		}
	}

	if !allDone {
		p.mu.Unlock()
		return
	}

	completed := make([]Item, len(p.items))
	for i, item := range p.items {
		completed[i] = *item
	}
	p.items = nil
	p.running = false
	stop := p.stop
	p.stop = nil
	onComplete := p.cfg.OnComplete
	p.mu.Unlock()

	if stop != nil {
		stop()
	}
	if onComplete != nil && len(completed) > 0 {
		onComplete(completed)
	}
}
