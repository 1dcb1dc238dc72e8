// Package session runs the interactive connection-drag state machine. A
// session translates pointer events into graph edits: press on a slot
// marker starts a drag, release commits it through the editor, and while
// the drag is live the session autoscrolls the viewport when the pointer
// nears its edges.
package session

import (
	"sync"
	"time"

	"github.com/svgfx/fegraph/pkg/logging"
	"github.com/svgfx/fegraph/pkg/render"
)

// State is the drag lifecycle phase.
type State int

const (
	Idle State = iota
	Dragging
)

// Connector commits drag outcomes. The editor implements it.
type Connector interface {
	ConnectToSource(row, slot, source int) error
	ConnectToNode(row, slot, targetRow int) error
	Disconnect(row, slot int) error
}

// ScrollPort is the scrollable viewport the drag happens in. Offsets and
// heights are in the same content units the adapter lays out in.
type ScrollPort interface {
	Offset() int
	ViewportHeight() int
	ScrollBy(delta int)
}

// Autoscroll tuning. Scrolling kicks in when the pointer is within
// edgeLimit of a viewport edge and speeds up with the overshoot.
const (
	scrollSpeed   = 10
	edgeLimit     = 15
	scrollPeriod  = 150 * time.Millisecond
	overshootStep = 5
)

// Session owns one drag at a time. All exported methods are safe to call
// from the event goroutine while the autoscroll ticker runs.
type Session struct {
	connector Connector
	port      ScrollPort

	mu         sync.Mutex
	state      State
	adapter    *render.Adapter
	originRow  int
	originSlot int
	pointerX   int
	pointerY   int

	tick       time.Duration
	stopScroll chan struct{}
	scrollDone chan struct{}
}

// New creates an idle session. The scroll port may be nil when the surface
// does not scroll; autoscroll is then disabled.
func New(c Connector, port ScrollPort) *Session {
	return &Session{connector: c, port: port, tick: scrollPeriod}
}

// State reports the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Drag returns the live drag for rubber-band drawing, or nil when idle.
func (s *Session) Drag() *render.Drag {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Dragging {
		return nil
	}
	return &render.Drag{
		OriginRow:  s.originRow,
		OriginSlot: s.originSlot,
		PointerX:   s.pointerX,
		PointerY:   s.pointerY,
	}
}

// Press starts a drag if (x, y) hits a slot marker on the given layout
// snapshot. The snapshot stays authoritative for the whole drag; document
// changes from elsewhere do not retarget a drag in flight.
func (s *Session) Press(a *render.Adapter, x, y int) bool {
	row, slot, ok := a.HitTest(x, y)
	if !ok {
		return false
	}

	s.mu.Lock()
	if s.state == Dragging {
		s.mu.Unlock()
		return false
	}
	s.state = Dragging
	s.adapter = a
	s.originRow = row
	s.originSlot = slot
	s.pointerX = x
	s.pointerY = y
	s.mu.Unlock()

	logging.Debug("drag started", "row", row, "slot", slot)
	s.startAutoscroll()
	return true
}

// Move updates the pointer during a drag. Returns false when idle.
func (s *Session) Move(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Dragging {
		return false
	}
	s.pointerX = x
	s.pointerY = y
	return true
}

// Release ends the drag and commits its outcome:
//
//   - over a source column: connect the slot to that standard source
//   - over a strictly earlier row: connect the slot to that row's result
//   - over the origin row or a later row: disconnect the slot
//   - anywhere else: cancel without touching the document
func (s *Session) Release(x, y int) error {
	s.stopAutoscroll()

	s.mu.Lock()
	if s.state != Dragging {
		s.mu.Unlock()
		return nil
	}
	a := s.adapter
	row, slot := s.originRow, s.originSlot
	s.state = Idle
	s.adapter = nil
	s.mu.Unlock()

	target := a.DropTargetAt(x, y)
	switch target.Kind {
	case render.DropSource:
		logging.Debug("drag commit", "row", row, "slot", slot, "source", target.Source)
		return s.connector.ConnectToSource(row, slot, target.Source)
	case render.DropRow:
		if target.Row < row {
			logging.Debug("drag commit", "row", row, "slot", slot, "target", target.Row)
			return s.connector.ConnectToNode(row, slot, target.Row)
		}
		logging.Debug("drag disconnect", "row", row, "slot", slot)
		return s.connector.Disconnect(row, slot)
	default:
		logging.Debug("drag cancelled", "row", row, "slot", slot)
		return nil
	}
}

// Cancel abandons the drag without committing anything.
func (s *Session) Cancel() {
	s.stopAutoscroll()

	s.mu.Lock()
	s.state = Idle
	s.adapter = nil
	s.mu.Unlock()
}

func (s *Session) startAutoscroll() {
	if s.port == nil {
		return
	}
	s.stopScroll = make(chan struct{})
	s.scrollDone = make(chan struct{})
	go func(stop, done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.autoscrollStep()
			}
		}
	}(s.stopScroll, s.scrollDone)
}

// stopAutoscroll shuts the ticker down and waits for it, so no scroll step
// can land after the session goes idle.
func (s *Session) stopAutoscroll() {
	if s.stopScroll == nil {
		return
	}
	close(s.stopScroll)
	<-s.scrollDone
	s.stopScroll = nil
	s.scrollDone = nil
}

// autoscrollStep scrolls once when the pointer sits near a viewport edge.
// The overshoot past the edge adds to the speed so long reaches ramp up.
func (s *Session) autoscrollStep() {
	s.mu.Lock()
	if s.state != Dragging {
		s.mu.Unlock()
		return
	}
	y := s.pointerY
	s.mu.Unlock()

	top := s.port.Offset()
	bottom := top + s.port.ViewportHeight()

	switch {
	case y < top+edgeLimit:
		overshoot := (top + edgeLimit) - y
		s.port.ScrollBy(-(scrollSpeed + overshoot/overshootStep))
	case y > bottom-edgeLimit:
		overshoot := y - (bottom - edgeLimit)
		s.port.ScrollBy(scrollSpeed + overshoot/overshootStep)
	}
}
