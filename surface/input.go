package surface

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/crackfield/crack"
	"github.com/lixenwraith/crackfield/parameter"
)

// Command is a host action requested from the keyboard or by layout changes
type Command uint8

const (
	CmdNone Command = iota
	CmdQuit
	CmdRegenerate
	CmdRadiusUp
	CmdRadiusDown
	CmdSpeedUp
	CmdSpeedDown
	CmdToggleHelp // exclusions changed
	CmdResized    // exclusions changed
)

func (c Command) String() string {
	switch c {
	case CmdQuit:
		return "quit"
	case CmdRegenerate:
		return "regenerate"
	case CmdRadiusUp:
		return "radius+"
	case CmdRadiusDown:
		return "radius-"
	case CmdSpeedUp:
		return "speed+"
	case CmdSpeedDown:
		return "speed-"
	case CmdToggleHelp:
		return "help"
	case CmdResized:
		return "resized"
	default:
		return "none"
	}
}

// Dispatch translates one terminal event into handler calls and returns the host command, if any
// Pointer input goes to h; keys become commands for the caller
func (s *Screen) Dispatch(ev tcell.Event, h crack.InputHandler) Command {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		s.dispatchMouse(ev, h)
		return CmdNone

	case *tcell.EventResize:
		s.resize(ev.Size())
		s.Sync()
		w, hgt := s.Size()
		h.OnResize(w, hgt)
		return CmdResized

	case *tcell.EventKey:
		return s.dispatchKey(ev)
	}
	return CmdNone
}

func (s *Screen) dispatchMouse(ev *tcell.EventMouse, h crack.InputHandler) {
	col, row := ev.Position()
	x, y := s.cellCenter(col, row)
	buttons := ev.Buttons()

	if buttons&(tcell.WheelUp|tcell.WheelDown) != 0 {
		if buttons&tcell.WheelUp != 0 {
			s.scroll -= parameter.ScrollStepPx
		} else {
			s.scroll += parameter.ScrollStepPx
		}
		h.OnScroll(s.scroll)
		return
	}

	down := buttons&tcell.Button1 != 0
	moved := col != s.lastCol || row != s.lastRow
	s.lastCol, s.lastRow = col, row

	switch {
	case down && !s.pressed:
		s.pressed = true
		s.dragged = false
		h.OnPointerDown(x, y)
	case down && s.pressed:
		if moved {
			s.dragged = true
			h.OnPointerMove(x, y)
		}
	case !down && s.pressed:
		s.pressed = false
		h.OnPointerUp(x, y)
		if !s.dragged {
			h.OnClick(x, y)
		}
	default:
		if moved {
			h.OnPointerMove(x, y)
		}
	}
}

func (s *Screen) dispatchKey(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyRune:
	default:
		return CmdNone
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return CmdQuit
	case 'r', 'R':
		return CmdRegenerate
	case '+', '=':
		return CmdRadiusUp
	case '-', '_':
		return CmdRadiusDown
	case '>', '.':
		return CmdSpeedUp
	case '<', ',':
		return CmdSpeedDown
	case 'h', 'H', '?':
		s.ToggleHelp()
		return CmdToggleHelp
	}
	return CmdNone
}
