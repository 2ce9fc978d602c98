package universe

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

//Options represents the Universe's configurable options
type Options struct {
	Width   int
	Height  int
	Engine  string //tick engine name, one of Engines()
	Workers int    //goroutines used by the parallel engine, 0 means runtime.NumCPU()
	Seed    uint64 //seed for Random, 0 means seeded from the clock
}

//default options
const (
	DefWidth  = 64
	DefHeight = 64
)

var DefaultOptions = Options{
	Width:  DefWidth,
	Height: DefHeight,
	Engine: EngineDouble,
}

//Universe is the Game of Life engine: a fixed size toroidal grid stored one bit per cell
//Universe is not safe for concurrent use, the caller serializes all calls
type Universe struct {
	width      int
	height     int
	cells      cells
	generation uint64
	rng        *rand.Rand
	details    map[string]interface{}

	//nextGeneration is set by the engine, it replaces u.cells with the next generation
	nextGeneration func()
	scratch        cells      //double and parallel engines
	workAreas      []workArea //parallel engine
	rowBuff        [3]cells   //rowbuf engine: two rows of next state and the saved first row
}

//New creates an all dead Universe with the default engine
func New(width int, height int) (*Universe, error) {
	o := DefaultOptions
	o.Width = width
	o.Height = height
	return NewWithOptions(&o)
}

//NewWithOptions creates an all dead Universe, nil means DefaultOptions
func NewWithOptions(o *Options) (*Universe, error) {
	if o == nil {
		o = &DefaultOptions
	}
	//width*height must fit an int for the cell indexes
	if o.Width <= 0 || o.Height <= 0 || o.Width > (math.MaxInt-7)/o.Height {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, o.Width, o.Height)
	}
	engine := o.Engine
	if engine == "" {
		engine = EngineDouble
	}
	setup, ok := engines[engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}

	seed := o.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	u := &Universe{
		width:   o.Width,
		height:  o.Height,
		rng:     rand.New(rand.NewPCG(seed, seed>>1|1)),
		details: map[string]interface{}{"engine": engine},
	}
	u.cells = newCells(u.size())
	setup(u, o)
	return u, nil
}

//Width returns the number of columns
func (u *Universe) Width() int {
	return u.width
}

//Height returns the number of rows
func (u *Universe) Height() int {
	return u.height
}

//Cells returns the current generation, ceil(width*height/8) bytes, bit i is (b[i/8] >> (i%8)) & 1
//the slice is not a copy and a Tick may replace it, so re-read it after any mutation
func (u *Universe) Cells() []byte {
	return u.cells
}

//Details returns engine specific details
func (u *Universe) Details() map[string]interface{} {
	return u.details
}

//Generation returns the number of ticks applied since construction
func (u *Universe) Generation() uint64 {
	return u.generation
}

//LiveCells calculates the count of live cells
func (u *Universe) LiveCells() int {
	return u.cells.count()
}

//Cell reports whether the cell at row, column is alive
func (u *Universe) Cell(row int, column int) (bool, error) {
	if err := u.checkRange(row, column); err != nil {
		return false, err
	}
	return u.cells.get(u.index(row, column)), nil
}

//Tick advances the universe by one generation
func (u *Universe) Tick() {
	u.nextGeneration()
	u.generation++
}

//TickN advances the universe by n generations
func (u *Universe) TickN(n int) {
	for i := 0; i < n; i++ {
		u.Tick()
	}
}

//ToggleCell inverses the cell state at row, column
func (u *Universe) ToggleCell(row int, column int) error {
	if err := u.checkRange(row, column); err != nil {
		return fmt.Errorf("toggle cell: %w", err)
	}
	u.cells.flip(u.index(row, column))
	return nil
}

//Settle makes every listed [row, column] cell alive
//nothing is changed if any coordinate is out of range
func (u *Universe) Settle(vc [][2]int) error {
	for _, v := range vc {
		if err := u.checkRange(v[0], v[1]); err != nil {
			return fmt.Errorf("settle: %w", err)
		}
	}
	for _, v := range vc {
		u.cells.set(u.index(v[0], v[1]), true)
	}
	return nil
}

//Random sets every cell alive or dead with probability 1/2
func (u *Universe) Random() {
	var v uint64
	for i := range u.cells {
		if i&7 == 0 {
			v = u.rng.Uint64()
		}
		u.cells[i] = byte(v >> uint(8*(i&7)))
	}
	u.cells.maskTail(u.size())
}

//KillAll kills every cell
func (u *Universe) KillAll() {
	u.cells.clear()
}

//Glider stamps the glider centered at row, column
func (u *Universe) Glider(row int, column int) error {
	return u.Stamp(Glider, row, column)
}

//Pulsar stamps the pulsar centered at row, column
func (u *Universe) Pulsar(row int, column int) error {
	return u.Stamp(Pulsar, row, column)
}

//Stamp makes the pattern cells alive around the anchor, wrapping at the edges
//other cells under the pattern keep their state
func (u *Universe) Stamp(p Pattern, row int, column int) error {
	if err := u.checkRange(row, column); err != nil {
		return fmt.Errorf("stamp %s: %w", p.Name, err)
	}
	for _, o := range p.Offsets {
		r := wrap(row+o[0], u.height)
		c := wrap(column+o[1], u.width)
		u.cells.set(u.index(r, c), true)
	}
	return nil
}

//String renders the universe one line per row
func (u *Universe) String() string {
	var b strings.Builder
	b.Grow(u.size()*3 + u.height)
	for row := 0; row < u.height; row++ {
		for column := 0; column < u.width; column++ {
			if u.cells.get(u.index(row, column)) {
				b.WriteRune('◻')
			} else {
				b.WriteRune('◼')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (u *Universe) size() int {
	return u.width * u.height
}

func (u *Universe) index(row int, column int) int {
	return row*u.width + column
}

func (u *Universe) checkRange(row int, column int) error {
	if row < 0 || column < 0 || row >= u.height || column >= u.width {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrIndexOutOfRange, row, column, u.width, u.height)
	}
	return nil
}

//wrap maps v into [0, n)
func wrap(v int, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
