package surface

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/parameter/visual"
)

var helpLines = [][2]string{
	{"drag", "inject material"},
	{"click", "single injection"},
	{"wheel", "grow cracks"},
	{"r", "regenerate field"},
	{"+ / -", "injection radius"},
	{"> / <", "injection speed"},
	{"h", "toggle this help"},
	{"q esc", "quit"},
}

const (
	helpKeyWidth  = 6
	helpDescWidth = 17
	helpPad       = 2
)

// SetHUD replaces the status line text
func (s *Screen) SetHUD(text string) {
	s.hud = text
}

// HUD returns the status line text
func (s *Screen) HUD() string {
	return s.hud
}

// ToggleHelp shows or hides the help overlay
func (s *Screen) ToggleHelp() {
	s.help = !s.help
}

// HelpVisible reports whether the help overlay is shown
func (s *Screen) HelpVisible() bool {
	return s.help
}

// helpBox returns the overlay cell rectangle, centered in the field rows
func (s *Screen) helpBox() (col, row, w, h int) {
	w = helpKeyWidth + helpDescWidth + helpPad*2 + 1
	h = len(helpLines) + 2
	col = max((s.cols-w)/2, 0)
	row = max((s.fieldRows()-h)/2, 0)
	return col, row, w, h
}

func (s *Screen) drawHUD() {
	row := s.fieldRows()
	style := tcell.StyleDefault.Foreground(toColor(visual.RgbHudFg)).Background(toColor(visual.RgbHudBg))
	for r := row; r < row+parameter.HUDRows; r++ {
		s.fillRow(0, r, s.cols, style)
	}
	s.drawText(0, row, s.cols, s.hud, style)
}

func (s *Screen) drawHelp() {
	col, row, w, h := s.helpBox()
	bg := toColor(visual.RgbOverlayBg)
	base := tcell.StyleDefault.Foreground(toColor(visual.RgbHudFg)).Background(bg)
	key := tcell.StyleDefault.Foreground(toColor(visual.RgbHudValue)).Background(bg)

	for r := row; r < row+h; r++ {
		s.fillRow(col, r, w, base)
	}
	for i, line := range helpLines {
		r := row + 1 + i
		s.drawText(col+helpPad, r, helpKeyWidth, line[0], key)
		s.drawText(col+helpPad+helpKeyWidth+1, r, helpDescWidth, line[1], base)
	}
}

func (s *Screen) fillRow(col, row, w int, style tcell.Style) {
	for x := col; x < col+w && x < s.cols; x++ {
		s.screen.SetContent(x, row, ' ', nil, style)
	}
}

// drawText writes text clipped to maxWidth cells
func (s *Screen) drawText(col, row, maxWidth int, text string, style tcell.Style) {
	x := col
	for _, r := range text {
		if x >= col+maxWidth || x >= s.cols {
			return
		}
		s.screen.SetContent(x, row, r, nil, style)
		x++
	}
}
