package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/recera/geowidget/pkg/scheduler"
)

// Scheduler interface for reactive system
type Scheduler interface {
	MarkDirty(fiber *scheduler.Fiber)
}

var logger atomic.Pointer[slog.Logger]

// SetLogger routes reactive diagnostics to l
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Signal is the interface for reactive values
type Signal[T any] interface {
	Get() T
	Set(T)
	Subscribe(fiber *scheduler.Fiber)
	Unsubscribe(fiber *scheduler.Fiber)
}

// State represents a reactive state value. Reading it inside a render
// subscribes the rendering fiber; writing it marks subscribers dirty.
type State[T any] struct {
	value T
	mu    sync.RWMutex

	deps      map[uint32]*scheduler.Fiber
	depsMu    sync.RWMutex
	scheduler Scheduler
}

var _ Signal[int] = (*State[int])(nil)

// NewState creates a new reactive state
func NewState[T any](initial T, sched Scheduler) *State[T] {
	return &State[T]{
		value:     initial,
		deps:      make(map[uint32]*scheduler.Fiber),
		scheduler: sched,
	}
}

// Get returns the current value and tracks dependencies
func (s *State[T]) Get() T {
	if fiber := scheduler.Current(); fiber != nil {
		s.Subscribe(fiber)
	}
	return s.Peek()
}

// Peek returns the current value without subscribing
func (s *State[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and marks dependent fibers as dirty
func (s *State[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
	s.notify()
}

// Update atomically reads, modifies, and writes the value
func (s *State[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	s.mu.Unlock()
	s.notify()
}

func (s *State[T]) notify() {
	s.depsMu.RLock()
	deps := make([]*scheduler.Fiber, 0, len(s.deps))
	for _, fiber := range s.deps {
		deps = append(deps, fiber)
	}
	s.depsMu.RUnlock()

	// outside the lock; MarkDirty may re-enter Get
	for _, fiber := range deps {
		markDirtyOrBatch(s.scheduler, fiber)
	}
}

// Subscribe adds a fiber as a dependency. The subscription is dropped when
// the fiber is removed.
func (s *State[T]) Subscribe(fiber *scheduler.Fiber) {
	if fiber == nil {
		return
	}

	s.depsMu.Lock()
	_, known := s.deps[fiber.ID()]
	s.deps[fiber.ID()] = fiber
	s.depsMu.Unlock()

	if !known {
		fiber.OnDispose(func() { s.Unsubscribe(fiber) })
	}
}

// Unsubscribe removes a fiber as a dependency
func (s *State[T]) Unsubscribe(fiber *scheduler.Fiber) {
	if fiber == nil {
		return
	}

	s.depsMu.Lock()
	defer s.depsMu.Unlock()
	delete(s.deps, fiber.ID())
}

// Subscribers returns the number of fibers depending on s
func (s *State[T]) Subscribers() int {
	s.depsMu.RLock()
	defer s.depsMu.RUnlock()
	return len(s.deps)
}

// batchContext holds the current batch state
var batchContext atomic.Pointer[Batch]

// Batch collects dirty fibers so several writes cause one render
type Batch struct {
	scheduler   Scheduler
	dirtyFibers map[uint32]*scheduler.Fiber
	mu          sync.Mutex
	active      bool
}

// NewBatch creates a new batch context
func NewBatch(sched Scheduler) *Batch {
	return &Batch{
		scheduler:   sched,
		dirtyFibers: make(map[uint32]*scheduler.Fiber),
		active:      true,
	}
}

// Add adds a fiber to the batch
func (b *Batch) Add(fiber *scheduler.Fiber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.active || fiber == nil {
		return
	}
	b.dirtyFibers[fiber.ID()] = fiber
}

// Commit marks all collected fibers dirty
func (b *Batch) Commit() {
	b.mu.Lock()
	b.active = false
	fibers := make([]*scheduler.Fiber, 0, len(b.dirtyFibers))
	for _, fiber := range b.dirtyFibers {
		fibers = append(fibers, fiber)
	}
	b.dirtyFibers = nil
	b.mu.Unlock()

	if b.scheduler == nil {
		return
	}
	for _, fiber := range fibers {
		b.scheduler.MarkDirty(fiber)
	}
}

func (b *Batch) isActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// RunBatch executes fn and marks affected fibers dirty once it returns
func RunBatch(sched Scheduler, fn func()) {
	batch := NewBatch(sched)
	oldBatch := batchContext.Swap(batch)

	defer func() {
		batchContext.Store(oldBatch)
		batch.Commit()
	}()

	fn()
}

// markDirtyOrBatch marks a fiber dirty or adds to current batch
func markDirtyOrBatch(sched Scheduler, fiber *scheduler.Fiber) {
	switch batch := batchContext.Load(); {
	case batch != nil && batch.isActive():
		batch.Add(fiber)
	case sched != nil:
		sched.MarkDirty(fiber)
	default:
		log().Warn("reactive: state changed without a scheduler", "fiber", fiber.ID())
	}
}
