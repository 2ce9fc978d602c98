//go:build ebiten

package view

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lifeverse/src/simulation"
)

//Canvas is the windowed viewer: it draws the grid like the web page did and ticks once per frame while running
type Canvas struct {
	s       *simulation.Simulation
	img     *ebiten.Image
	buf     []byte
	w, h    int
	scale   int
	tps     int
	running bool
}

//NewCanvas creates the window viewer, scale multiplies the canvas pixels and tps is the frame rate
func NewCanvas(scale int, tps int) (*Canvas, error) {
	if scale <= 0 {
		scale = 1
	}
	return &Canvas{scale: scale, tps: tps}, nil
}

func (c *Canvas) Register(s *simulation.Simulation) {
	c.s = s
	o := s.Options()
	c.w, c.h = CanvasSize(o.Universe.Width, o.Universe.Height)
	c.buf = make([]byte, 4*c.w*c.h)
	c.img = ebiten.NewImage(c.w, c.h)
}

//Refresh is a no-op: every frame is repainted from the latest generation
func (c *Canvas) Refresh() {}

func (c *Canvas) Start() {
	ebiten.SetWindowTitle("lifeverse")
	if c.tps > 0 {
		ebiten.SetTPS(c.tps)
	}
	ebiten.SetWindowSize(c.w*c.scale, c.h*c.scale)
	if err := ebiten.RunGame(c); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Println(err)
	}
}

//Update handles the input and advances the simulation
func (c *Canvas) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	o := c.s.Options()
	x, y := ebiten.CursorPosition()
	row, column := CellAt(x, y, o.Universe.Width, o.Universe.Height)

	var err error
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		err = c.s.ToggleCell(row, column)
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		err = c.s.Glider(row, column)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		err = c.s.Pulsar(row, column)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		c.s.Clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		c.s.Random()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		c.running = !c.running
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		c.s.Step()
	}
	if err != nil {
		return err
	}

	if c.running {
		c.s.Step()
	}
	return nil
}

//Draw paints the latest generation
func (c *Canvas) Draw(screen *ebiten.Image) {
	PaintFrame(c.buf, c.s.Frame())
	c.img.WritePixels(c.buf)
	screen.DrawImage(c.img, nil)
}

//Layout returns the logical screen size
func (c *Canvas) Layout(_, _ int) (int, int) {
	return c.w, c.h
}
