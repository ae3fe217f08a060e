// Package input turns SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event is one viewer-relevant input occurrence.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	// DX and DY are the relative motion of a mouse move.
	DX     int
	DY     int
	Button uint8
	Wheel  float32
}

// Input collects a frame's events and tracks held keys and left-button drags.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool
	drag   bool
}

func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update replaces the frame's events with everything SDL has queued. It
// reports true as soon as a quit event arrives.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.Handle(event) {
			return true
		}
	}
	return false
}

// Handle records one SDL event. It returns true on quit.
func (i *Input) Handle(event sdl.Event) bool {
	e, ok := translate(event)
	if !ok {
		return false
	}
	i.events = append(i.events, e)

	switch e.Type {
	case EventQuit:
		return true
	case EventKeyDown:
		i.held[e.Key] = true
	case EventKeyUp:
		delete(i.held, e.Key)
	case EventMouseDown:
		if e.Button == sdl.BUTTON_LEFT {
			i.drag = true
		}
	case EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT {
			i.drag = false
		}
	}
	return false
}

var (
	keyKinds    = map[uint32]EventType{sdl.KEYDOWN: EventKeyDown, sdl.KEYUP: EventKeyUp}
	buttonKinds = map[uint32]EventType{sdl.MOUSEBUTTONDOWN: EventMouseDown, sdl.MOUSEBUTTONUP: EventMouseUp}
)

// translate maps the SDL events the viewer reacts to. Key repeats and
// window events other than resize are dropped.
func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)},
			e.Event == sdl.WINDOWEVENT_RESIZED

	case *sdl.KeyboardEvent:
		kind, ok := keyKinds[e.Type]
		return Event{Type: kind, Key: e.Keysym.Scancode}, ok && e.Repeat == 0

	case *sdl.MouseMotionEvent:
		return Event{Type: EventMouseMove, MouseX: int(e.X), MouseY: int(e.Y), DX: int(e.XRel), DY: int(e.YRel)}, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, Wheel: float32(e.Y)}, true

	case *sdl.MouseButtonEvent:
		kind, ok := buttonKinds[e.Type]
		return Event{Type: kind, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, ok
	}
	return Event{}, false
}

// Events returns this frame's events. The slice is reused by Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports a key-down edge during this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// MouseDelta sums the relative motion of this frame's moves made while the
// left button was held.
func (i *Input) MouseDelta() (dx, dy int) {
	if !i.drag {
		return 0, 0
	}
	for _, e := range i.events {
		if e.Type == EventMouseMove {
			dx += e.DX
			dy += e.DY
		}
	}
	return dx, dy
}

// WheelDelta sums this frame's scroll wheel motion.
func (i *Input) WheelDelta() float32 {
	var d float32
	for _, e := range i.events {
		if e.Type == EventMouseWheel {
			d += e.Wheel
		}
	}
	return d
}
