package scheduler

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/recera/geowidget/pkg/vango/vdom"
)

// RenderFunc is the function type for component render functions
type RenderFunc func() *vdom.VNode

// PatchApplier writes a diff to the output (DOM, string buffer...)
type PatchApplier func(patches []vdom.Patch) error

// ErrorHandler handles panics during rendering
// Returns true to continue scheduling, false to remove the fiber
type ErrorHandler func(fiber *Fiber, err error) bool

// Fiber represents a lightweight component execution context
type Fiber struct {
	id     uint32
	parent *Fiber
	vnode  *vdom.VNode // last rendered tree

	render RenderFunc

	dirty atomic.Bool

	onError ErrorHandler

	// per-fiber state that survives re-renders
	mu        sync.Mutex
	slots     map[string]any
	disposers []func()
}

var logger atomic.Pointer[slog.Logger]

// SetLogger routes scheduler diagnostics to l
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func log() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

var current atomic.Pointer[Fiber]

// Current returns the fiber whose render function is running, or nil
func Current() *Fiber {
	return current.Load()
}

// Scheduler manages fiber execution
type Scheduler struct {
	mu         sync.Mutex
	fibers     map[uint32]*Fiber
	nextID     uint32
	globalWake chan *Fiber
	stop       chan struct{}
	running    atomic.Bool

	// serializes renders between the loop and RenderNow
	renderMu sync.Mutex

	applyPatches PatchApplier
	defaultError ErrorHandler
}

// NewScheduler creates a new scheduler instance
func NewScheduler() *Scheduler {
	return &Scheduler{
		fibers:     make(map[uint32]*Fiber),
		nextID:     1,
		globalWake: make(chan *Fiber, 1024),
	}
}

// SetPatchApplier sets the function that applies patches to the DOM
func (s *Scheduler) SetPatchApplier(applier PatchApplier) {
	s.applyPatches = applier
}

// SetDefaultErrorHandler sets the default error handler for fibers
func (s *Scheduler) SetDefaultErrorHandler(handler ErrorHandler) {
	s.defaultError = handler
}

// CreateFiber creates a new fiber for a component
func (s *Scheduler) CreateFiber(render RenderFunc, parent *Fiber) *Fiber {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	fiber := &Fiber{
		id:      id,
		parent:  parent,
		render:  render,
		onError: s.defaultError,
	}
	s.fibers[id] = fiber
	return fiber
}

// RemoveFiber removes a fiber and runs its disposers, last registered first
func (s *Scheduler) RemoveFiber(fiber *Fiber) {
	if fiber == nil {
		return
	}

	s.mu.Lock()
	_, ok := s.fibers[fiber.id]
	delete(s.fibers, fiber.id)
	s.mu.Unlock()

	if ok {
		fiber.dispose()
	}
}

// MarkDirty marks a fiber as needing re-render
func (s *Scheduler) MarkDirty(fiber *Fiber) {
	if fiber == nil {
		return
	}
	if !fiber.dirty.CompareAndSwap(false, true) {
		return
	}
	if !s.running.Load() {
		// queued by Start
		log().Debug("scheduler: fiber marked dirty while stopped", "fiber", fiber.id)
		return
	}
	s.wake(fiber)
}

// wake queues a dirty fiber without blocking. A dropped fiber is marked
// clean so the next MarkDirty can queue it again.
func (s *Scheduler) wake(fiber *Fiber) {
	select {
	case s.globalWake <- fiber:
	default:
		fiber.dirty.Store(false)
		log().Warn("scheduler: wake channel full", "fiber", fiber.id)
	}
}

// Start begins the scheduler loop
func (s *Scheduler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.stop = make(chan struct{})
	go s.loop(s.stop)

	s.mu.Lock()
	pending := make([]*Fiber, 0, len(s.fibers))
	for _, fiber := range s.fibers {
		if fiber.dirty.Load() {
			pending = append(pending, fiber)
		}
	}
	s.mu.Unlock()
	for _, fiber := range pending {
		s.wake(fiber)
	}
}

// Stop stops the scheduler loop
func (s *Scheduler) Stop() {
	if s.running.CompareAndSwap(true, false) {
		close(s.stop)
	}
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

func (s *Scheduler) loop(stop <-chan struct{}) {
	for {
		var fiber *Fiber
		select {
		case <-stop:
			return
		case fiber = <-s.globalWake:
		}

		batch := []*Fiber{fiber}
	drain:
		for {
			select {
			case f := <-s.globalWake:
				batch = append(batch, f)
			default:
				break drain
			}
		}

		for _, f := range batch {
			s.processFiber(f)
		}
	}
}

// RenderNow renders fiber synchronously, whether or not it is dirty
func (s *Scheduler) RenderNow(fiber *Fiber) {
	if fiber == nil {
		return
	}
	fiber.dirty.Store(true)
	s.processFiber(fiber)
}

// processFiber renders a single fiber and applies patches
func (s *Scheduler) processFiber(fiber *Fiber) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	if !fiber.dirty.CompareAndSwap(true, false) {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.handleFiberError(fiber, r)
		}
	}()

	prev := current.Swap(fiber)
	next := fiber.render()
	current.Store(prev)

	patches := vdom.Diff(fiber.vnode, next)
	if s.applyPatches != nil && len(patches) > 0 {
		if err := s.applyPatches(patches); err != nil {
			log().Error("scheduler: apply patches", "fiber", fiber.id, "err", err)
		}
	}
	fiber.vnode = next
}

func (s *Scheduler) handleFiberError(fiber *Fiber, r any) {
	current.Store(nil)
	err := fmt.Errorf("fiber %d panic: %v\n%s", fiber.id, r, debug.Stack())
	log().Error("scheduler: render panic", "fiber", fiber.id, "err", r)

	if fiber.onError != nil && fiber.onError(fiber, err) {
		return
	}
	s.RemoveFiber(fiber)
}

// GetFiber returns a fiber by ID
func (s *Scheduler) GetFiber(id uint32) *Fiber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fibers[id]
}

// FiberCount returns the number of active fibers
func (s *Scheduler) FiberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fibers)
}

// ID returns the fiber's unique ID
func (f *Fiber) ID() uint32 {
	return f.id
}

// Parent returns the fiber's parent
func (f *Fiber) Parent() *Fiber {
	return f.parent
}

// VNode returns the fiber's last rendered VNode
func (f *Fiber) VNode() *vdom.VNode {
	return f.vnode
}

// Dirty reports whether a render is pending
func (f *Fiber) Dirty() bool {
	return f.dirty.Load()
}

// SetErrorHandler sets a custom error handler for this fiber
func (f *Fiber) SetErrorHandler(handler ErrorHandler) {
	f.onError = handler
}

// Slot returns the value stored under key, calling init to create it on
// first use. init must not call back into the fiber. Values live until the
// fiber is removed.
func (f *Fiber) Slot(key string, init func() any) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.slots[key]; ok {
		return v
	}
	if f.slots == nil {
		f.slots = make(map[string]any)
	}
	v := init()
	f.slots[key] = v
	return v
}

// OnDispose registers fn to run when the fiber is removed
func (f *Fiber) OnDispose(fn func()) {
	f.mu.Lock()
	f.disposers = append(f.disposers, fn)
	f.mu.Unlock()
}

func (f *Fiber) dispose() {
	f.mu.Lock()
	fns := f.disposers
	f.disposers = nil
	f.slots = nil
	f.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
