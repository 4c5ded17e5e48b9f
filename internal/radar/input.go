package radar

import "image"

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// MouseEvent is the kind of pointer event.
type MouseEvent uint8

const (
	MouseMove MouseEvent = iota
	MouseDown
	MouseUp
	MouseScroll
)

// Modifiers is a bitfield of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// MouseInput is one pointer event in screen pixels.
type MouseInput struct {
	Event     MouseEvent
	Button    MouseButton
	Modifiers Modifiers
	Location  image.Point
}

// ButtonState is one polled pointer snapshot, for hosts that read button
// state each frame instead of receiving events.
type ButtonState struct {
	Location    image.Point
	Left, Right bool
}

// Edges converts two consecutive snapshots into the events between them:
// press and release edges, plus a move while the left button is held.
func Edges(prev, cur ButtonState, mods Modifiers) []MouseInput {
	var out []MouseInput
	ev := func(e MouseEvent, b MouseButton) {
		out = append(out, MouseInput{Event: e, Button: b, Modifiers: mods, Location: cur.Location})
	}
	switch {
	case cur.Left && !prev.Left:
		ev(MouseDown, ButtonLeft)
	case !cur.Left && prev.Left:
		ev(MouseUp, ButtonLeft)
	case cur.Left && cur.Location != prev.Location:
		ev(MouseMove, ButtonLeft)
	}
	switch {
	case cur.Right && !prev.Right:
		ev(MouseDown, ButtonRight)
	case !cur.Right && prev.Right:
		ev(MouseUp, ButtonRight)
	}
	return out
}
