package skyraster

import "sync"

// A request to identify the map pixel under a display coordinate, and its answer.
type PickEvent struct {
	X     float64
	Y     float64
	Index int
}

// Receives the address index resolved for each pick, Unmapped included.
type PickHandler interface {
	HandlePick(PickEvent)
}

type PickHandlerFunc func(PickEvent)

func (f PickHandlerFunc) HandlePick(e PickEvent) {
	f(e)
}

// Turns display coordinates coming from an interactive front end into address
// indices and passes them on to every attached handler. The picker knows
// nothing about where the coordinates come from.
type Picker struct {
	rasterizer *Rasterizer
	space      CoordinateSpace
	handlers   []PickHandler
	lock       sync.RWMutex
}

func NewPicker(rasterizer *Rasterizer, space CoordinateSpace) *Picker {
	return &Picker{
		rasterizer: rasterizer,
		space:      space,
	}
}

func (p *Picker) Attach(h PickHandler) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.handlers = append(p.handlers, h)
}

// Resolves (x, y) and dispatches the result to the attached handlers, in the
// order they were attached.
func (p *Picker) Pick(x float64, y float64) int {
	index := p.rasterizer.CellAt(x, y, p.space)
	Logger().Debug("pick", "x", x, "y", y, "index", index)

	p.lock.RLock()
	handlers := append([]PickHandler(nil), p.handlers...)
	p.lock.RUnlock()

	event := PickEvent{X: x, Y: y, Index: index}
	for _, h := range handlers {
		h.HandlePick(event)
	}
	return index
}

// A buffered queue of picks, for consumers that drain them on their own
// goroutine. When the buffer is full, new picks are dropped.
type PickQueue struct {
	events chan PickEvent
}

func NewPickQueue(buffer int) *PickQueue {
	return &PickQueue{events: make(chan PickEvent, buffer)}
}

func (q *PickQueue) HandlePick(e PickEvent) {
	select {
	case q.events <- e:
	default:
		Logger().Warn("pick queue full, dropping pick", "x", e.X, "y", e.Y, "index", e.Index)
	}
}

func (q *PickQueue) Events() <-chan PickEvent {
	return q.events
}
