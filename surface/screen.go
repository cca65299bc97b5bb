// Package surface draws a raster into a tcell terminal and translates terminal
// input into field input
package surface

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/crackfield/core"
	"github.com/lixenwraith/crackfield/crack"
	"github.com/lixenwraith/crackfield/parameter"
	"github.com/lixenwraith/crackfield/render"
)

// halfBlock paints the top pixel as foreground and the bottom pixel as background
const halfBlock = '▀'

// Screen owns a tcell screen and the raster presented on it
// Each terminal cell shows two vertically stacked raster pixels
type Screen struct {
	screen tcell.Screen
	raster *render.Raster
	scale  float64

	cols, rows int

	events   chan tcell.Event
	quit     chan struct{}
	finiOnce sync.Once

	// Mouse tracking for press, drag and click translation
	pressed bool
	dragged bool
	lastCol int
	lastRow int
	scroll  float64

	hud  string
	help bool
}

// New wraps screen; scale is field units per raster pixel
func New(screen tcell.Screen, scale float64) *Screen {
	if scale <= 0 {
		scale = parameter.DefaultPixelScale
	}
	return &Screen{
		screen:  screen,
		raster:  render.NewRaster(0, 0, scale),
		scale:   scale,
		events:  make(chan tcell.Event, parameter.EventChannelSize),
		quit:    make(chan struct{}),
		lastCol: -1,
		lastRow: -1,
	}
}

// Init initializes the terminal, enables mouse reporting and starts the input pump
func (s *Screen) Init() error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	s.screen.EnableMouse(tcell.MouseMotionEvents)
	s.screen.HideCursor()
	s.screen.Clear()
	s.resize(s.screen.Size())

	core.Go(s.pump)
	return nil
}

// pump forwards terminal events until Fini
func (s *Screen) pump() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.quit:
			return
		}
	}
}

// Fini stops the input pump and restores the terminal, safe to call more than once
func (s *Screen) Fini() {
	s.finiOnce.Do(func() {
		close(s.quit)
		s.screen.Fini()
	})
}

// Events delivers terminal events from the input pump
func (s *Screen) Events() <-chan tcell.Event {
	return s.events
}

// Raster returns the canvas the field paints onto
func (s *Screen) Raster() *render.Raster {
	return s.raster
}

// Size returns the drawable area in field units
func (s *Screen) Size() (float64, float64) {
	return s.raster.Bounds()
}

// resize fits the raster to the terminal minus the HUD rows
func (s *Screen) resize(cols, rows int) {
	s.cols = max(cols, 0)
	s.rows = max(rows, 0)
	s.raster.Resize(s.cols, max(s.rows-parameter.HUDRows, 0)*2)
}

// fieldRows is the number of terminal rows covered by the raster
func (s *Screen) fieldRows() int {
	return max(s.rows-parameter.HUDRows, 0)
}

// cellCenter maps a terminal cell to the field position of its center
func (s *Screen) cellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * s.scale, (float64(row)*2 + 1) * s.scale
}

// cellRect maps a block of terminal cells to a field rectangle
func (s *Screen) cellRect(col, row, w, h int) crack.Rect {
	return crack.Rect{
		X: float64(col) * s.scale,
		Y: float64(row) * 2 * s.scale,
		W: float64(w) * s.scale,
		H: float64(h) * 2 * s.scale,
	}
}

// Exclusions returns the field regions covered by the HUD and, when shown, the help overlay
func (s *Screen) Exclusions() []crack.Rect {
	rects := []crack.Rect{s.cellRect(0, s.fieldRows(), s.cols, parameter.HUDRows)}
	if s.help {
		col, row, w, h := s.helpBox()
		rects = append(rects, s.cellRect(col, row, w, h))
	}
	return rects
}

// Present copies the raster to the terminal, draws the overlays and shows the frame
func (s *Screen) Present() {
	width := s.raster.Width()
	for row := 0; row < s.fieldRows(); row++ {
		for col := 0; col < width; col++ {
			top := s.raster.At(col, row*2)
			bottom := s.raster.At(col, row*2+1)
			style := tcell.StyleDefault.Foreground(toColor(top)).Background(toColor(bottom))
			s.screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
	s.drawHUD()
	if s.help {
		s.drawHelp()
	}
	s.screen.Show()
}

// Sync forces a full redraw on the next Show, used after resize
func (s *Screen) Sync() {
	s.screen.Sync()
}

func toColor(c render.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
