package geowidget

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ListenerState is the readiness of a widget's current attachment
type ListenerState uint32

const (
	// StateUnattached means no element is subscribed
	StateUnattached ListenerState = iota
	// StateListening means a subscription waits for the ready event
	StateListening
	// StateReady means the control API arrived and the callback is registered
	StateReady
)

func (s ListenerState) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateListening:
		return "listening"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// readyListener owns the ready-event subscription of one widget. attach and
// detach run on the UI loop; the event handler may run anywhere.
type readyListener struct {
	cell   *apiCell
	log    *slog.Logger
	cancel context.CancelFunc
	state  atomic.Uint32

	// onReady runs after the callback is registered
	onReady func()
}

func (l *readyListener) State() ListenerState {
	return ListenerState(l.state.Load())
}

// attach cancels the current subscription and, if target is non-nil,
// subscribes to the ready event with onPoint as the callback to register.
func (l *readyListener) attach(target Target, onPoint func(SelectedPoint)) {
	l.detach()
	if target == nil {
		l.log.Debug("geowidget: no element, ready subscription skipped")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.state.Store(uint32(StateListening))

	if onPoint == nil {
		onPoint = func(SelectedPoint) {}
	}

	var once sync.Once
	target.AddEventListener(ctx, ReadyEvent, func(ev Event) {
		// a cancelled attachment may still see one late delivery
		if ctx.Err() != nil {
			return
		}
		detail, ok := ev.Detail.(ReadyDetail)
		if !ok || detail.API == nil {
			l.log.Debug("geowidget: ready event without api ignored")
			return
		}
		l.cell.store(detail.API)
		once.Do(func() {
			l.state.Store(uint32(StateReady))
			detail.API.AddPointSelectedCallback(onPoint)
			l.log.Debug("geowidget: ready")
			if l.onReady != nil {
				l.onReady()
			}
		})
	})
	l.log.Debug("geowidget: listening for ready event")
}

func (l *readyListener) detach() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.state.Store(uint32(StateUnattached))
}
