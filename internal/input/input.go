// Package input translates global pointer and keyboard hooks into the
// typed event stream the session event loop consumes.
package input

import (
	"github.com/bryanchriswhite/snaploupe/internal/geometry"
	"github.com/bryanchriswhite/snaploupe/internal/logger"

	gohook "github.com/robotn/gohook"
)

// Kind identifies an input event.
type Kind int

const (
	PointerMoved Kind = iota
	ButtonDown
	ButtonUp
	AltDown
	AltUp
	Escape
	Commit
	WindowPick
)

// Event is one translated input event. Point is set for PointerMoved.
type Event struct {
	Kind  Kind
	Point geometry.Point
}

// Rawcode candidates per logical key. Keyboard hooks report platform
// rawcodes, so each logical key matches both the X11 keysym and the
// Windows virtual-key values.
var (
	altCodes    = map[uint16]bool{65513: true, 65514: true, 164: true, 165: true}
	escapeCodes = map[uint16]bool{65307: true, 27: true}
	commitCodes = map[uint16]bool{65293: true, 13: true, 32: true}
	pickCodes   = map[uint16]bool{119: true, 87: true} // w
)

const leftButton = 1

// Source adapts the global hook into an Event channel.
type Source struct {
	events chan Event
	done   chan struct{}
}

// Start installs the global hook and begins translating events. Close
// uninstalls it.
func Start() *Source {
	s := &Source{
		events: make(chan Event, 128),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Events returns the translated event stream. The channel closes when
// the hook shuts down.
func (s *Source) Events() <-chan Event {
	return s.events
}

// Close uninstalls the global hook and stops the stream.
func (s *Source) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
		gohook.End()
	}
}

func (s *Source) run() {
	log := logger.WithComponent("input")
	defer close(s.events)

	evChan := gohook.Start()
	if evChan == nil {
		log.Error().Msg("global hook failed to start")
		return
	}
	log.Debug().Msg("global hook installed")

	for ev := range evChan {
		out, ok := translate(ev)
		if !ok {
			continue
		}
		select {
		case s.events <- out:
		case <-s.done:
			return
		default:
			// The event loop is behind; stale pointer positions are
			// worthless, so drop rather than block the hook thread.
		}
	}
}

// translate maps one raw hook event onto the session vocabulary.
func translate(ev gohook.Event) (Event, bool) {
	switch ev.Kind {
	case gohook.MouseMove, gohook.MouseDrag:
		return Event{Kind: PointerMoved, Point: geometry.Pt(int(ev.X), int(ev.Y))}, true

	case gohook.MouseDown:
		if ev.Button == leftButton {
			return Event{Kind: ButtonDown}, true
		}

	case gohook.MouseUp:
		if ev.Button == leftButton {
			return Event{Kind: ButtonUp}, true
		}

	case gohook.KeyDown:
		switch {
		case altCodes[ev.Rawcode]:
			return Event{Kind: AltDown}, true
		case escapeCodes[ev.Rawcode]:
			return Event{Kind: Escape}, true
		case commitCodes[ev.Rawcode]:
			return Event{Kind: Commit}, true
		case pickCodes[ev.Rawcode]:
			return Event{Kind: WindowPick}, true
		}

	case gohook.KeyUp:
		if altCodes[ev.Rawcode] {
			return Event{Kind: AltUp}, true
		}
	}
	return Event{}, false
}
