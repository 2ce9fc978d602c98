package simulation

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"lifeverse/src/universe"
)

var ErrClosed = errors.New("simulation closed")

//Options represents the Simulation's configurable options
type Options struct {
	Universe        universe.Options
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	TicksPerFrame   int                    //generations per step
	Advanced        map[string]interface{} //advanced options (engine specific)
}

//Status represents the status of the Simulation at concrete moment
type Status struct {
	IterationNum  int
	Generation    uint64
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(s *Simulation)
	Start()
}

//The simulation running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefMaxSkippedTicks    = 5
	DefTicksPerFrame      = 1
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

var DefaultOptions = Options{
	Universe:        universe.DefaultOptions,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	TicksPerFrame:   DefTicksPerFrame,
}

//Frame is a copy of one generation for the viewers
type Frame struct {
	Width  int
	Height int
	Cells  []byte
}

//Alive reports whether the cell at row, column is alive, false outside the frame
func (f Frame) Alive(row int, column int) bool {
	if row < 0 || column < 0 || row >= f.Height || column >= f.Width {
		return false
	}
	i := row*f.Width + column
	return f.Cells[i/8]>>(uint(i)%8)&1 == 1
}

//Simulation drives one Universe from a single control goroutine
//all mutations run on that goroutine, frames and status can be read from any goroutine
type Simulation struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	universe struct {
		*universe.Universe
		sync.RWMutex
	}
	prev      []byte
	stateCh   chan Status
	views     []Viewer
	templates map[string]universe.Pattern
	controlCh chan func()
	closeCh   chan bool
	doneCh    chan struct{}
	closeOnce sync.Once
}

//New creates the Simulation instance and starts its control loop
//stateCh gets the status on every running mode switch, it can be nil
func New(o *Options, stateCh chan Status) (*Simulation, error) {
	if o == nil {
		o = &DefaultOptions
	}
	u, err := universe.NewWithOptions(&o.Universe)
	if err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}

	s := &Simulation{
		options:   *o,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		doneCh:    make(chan struct{}),
		stateCh:   stateCh,
		templates: universe.Patterns(),
		prev:      make([]byte, len(u.Cells())),
	}
	if s.options.TicksPerFrame <= 0 {
		s.options.TicksPerFrame = DefTicksPerFrame
	}
	s.options.Advanced = make(map[string]interface{})
	for k, v := range u.Details() {
		s.options.Advanced[k] = v
	}
	s.universe.Universe = u
	go s.mainLoop()
	return s, nil
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (s *Simulation) AddTemplate(p universe.Pattern) {
	_ = s.exec(func() error {
		s.templates[p.Name] = p
		return nil
	})
}

//Templates returns the sorted names of the stored templates
func (s *Simulation) Templates() (names []string) {
	_ = s.exec(func() error {
		for k := range s.templates {
			names = append(names, k)
		}
		return nil
	})
	sort.Strings(names)
	return
}

//SettleTemplate stamps the template at row, column
func (s *Simulation) SettleTemplate(name string, row int, column int) error {
	return s.mutate(func(u *universe.Universe) error {
		p, ok := s.templates[name]
		if !ok {
			return fmt.Errorf("template %q: %w", name, universe.ErrBadPattern)
		}
		return u.Stamp(p, row, column)
	})
}

//Settle makes every listed [row, column] cell alive
func (s *Simulation) Settle(vc [][2]int) error {
	return s.mutate(func(u *universe.Universe) error { return u.Settle(vc) })
}

//ToggleCell inverses the cell state at row, column
func (s *Simulation) ToggleCell(row int, column int) error {
	return s.mutate(func(u *universe.Universe) error { return u.ToggleCell(row, column) })
}

//Glider stamps the glider centered at row, column
func (s *Simulation) Glider(row int, column int) error {
	return s.mutate(func(u *universe.Universe) error { return u.Glider(row, column) })
}

//Pulsar stamps the pulsar centered at row, column
func (s *Simulation) Pulsar(row int, column int) error {
	return s.mutate(func(u *universe.Universe) error { return u.Pulsar(row, column) })
}

//Random populates the universe with random data, returns immediately
//ignored while the simulation is running
func (s *Simulation) Random() {
	s.send(func() {
		mode := s.Status().RunningMode
		if mode != RunningStateManual && mode != RunningStateFinished {
			return
		}
		_ = s.mutateLocked(func(u *universe.Universe) error {
			u.Random()
			return nil
		})
	})
}

//RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
func (s *Simulation) RegisterViewer(v Viewer) {
	_ = s.exec(func() error {
		s.views = append(s.views, v)
		return nil
	})
	v.Register(s)
}

//StateCh returns the channel with the simulation's status updates
func (s *Simulation) StateCh() chan Status {
	return s.stateCh
}

//Status returns current simulation status represented by Status struct
func (s *Simulation) Status() Status {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.Status
}

//Options returns current simulation configuration represented by Options struct
func (s *Simulation) Options() Options {
	return s.options
}

//Frame returns a copy of the current generation
func (s *Simulation) Frame() Frame {
	s.universe.RLock()
	defer s.universe.RUnlock()
	return Frame{
		Width:  s.universe.Width(),
		Height: s.universe.Height(),
		Cells:  append([]byte(nil), s.universe.Cells()...),
	}
}

//Run starts the simulation, returns immediately
func (s *Simulation) Run() {
	s.send(s.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (s *Simulation) Stop() {
	s.send(s.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (s *Simulation) Step() {
	s.send(s.step)
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (s *Simulation) Clear() {
	s.send(s.clear)
}

//Close stops the main loop, returns immediately
func (s *Simulation) Close() {
	s.closeOnce.Do(func() {
		s.closeCh <- true
	})
}

//Done is closed when the main loop has stopped
func (s *Simulation) Done() <-chan struct{} {
	return s.doneCh
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (s *Simulation) mainLoop() {
	defer close(s.doneCh)
	for {
		select {
		case cmd := <-s.controlCh:
			cmd()
		case <-s.closeCh:
			return
		}
	}
}

//send queues the command, the command is dropped once the simulation is closed
func (s *Simulation) send(cmd func()) bool {
	select {
	case s.controlCh <- cmd:
		return true
	case <-s.doneCh:
		return false
	}
}

//exec runs the command on the main loop and waits for the result
func (s *Simulation) exec(cmd func() error) error {
	res := make(chan error, 1)
	if !s.send(func() { res <- cmd() }) {
		return ErrClosed
	}
	select {
	case err := <-res:
		return err
	case <-s.doneCh:
		return ErrClosed
	}
}

//mutate runs f against the universe on the main loop and refreshes the views on success
func (s *Simulation) mutate(f func(u *universe.Universe) error) error {
	return s.exec(func() error { return s.mutateLocked(f) })
}

//mutateLocked must be called from the main loop
func (s *Simulation) mutateLocked(f func(u *universe.Universe) error) error {
	s.universe.Lock()
	err := f(s.universe.Universe)
	live := s.universe.LiveCells()
	s.universe.Unlock()
	if err != nil {
		return err
	}
	s.state.Lock()
	s.state.LiveCells = live
	s.state.Unlock()
	s.refreshView()
	return nil
}

//switchRunningState switch the state of the simulation to RunningState
//also writes the new state to the stateCh to signal upper control software
func (s *Simulation) switchRunningState(to RunningState) {
	s.state.Lock()
	s.state.RunningMode = to
	st := s.state.Status
	s.state.Unlock()
	if s.stateCh != nil {
		s.stateCh <- st
	}
}

//run starts the simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (s *Simulation) run() {
	if s.Status().RunningMode == RunningStateRun {
		return
	}
	s.switchRunningState(RunningStateRun)
	go func() {
		skipped := 0
		done := make(chan bool, 1)
		for {
			mode := s.Status().RunningMode
			if mode != RunningStateRun && mode != RunningStateStep {
				break
			}
			if skipped > s.options.MaxSkippedTicks {
				s.send(func() { s.switchRunningState(RunningStateFinished) })
				break
			}
			//skip the tick if the simulation is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				ok := s.send(func() {
					if s.Status().RunningMode == RunningStateRun {
						s.step()
					}
					done <- true
				})
				if !ok {
					break
				}
				select {
				case <-done:
				case <-s.doneCh:
					return
				}
			} else {
				skipped++
			}
			if s.options.Interval > 0 {
				time.Sleep(s.options.Interval)
			}
		}
	}()
}

//stop stops the simulation running cycle
func (s *Simulation) stop() {
	if s.Status().RunningMode == RunningStateRun {
		s.switchRunningState(RunningStateManual)
	}
}

//step does TicksPerFrame generations for entire universe
func (s *Simulation) step() {
	finished := false
	s.state.Lock()
	rm := s.state.RunningMode
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	s.state.IterationNum++
	iteration := s.state.IterationNum
	s.state.Unlock()
	maxIter := s.options.MaxSteps
	defer func() {
		if finished {
			s.switchRunningState(RunningStateFinished)
		} else {
			s.switchRunningState(rm)
		}
		s.refreshView()
	}()

	if maxIter != 0 && iteration > maxIter {
		finished = true
		return
	}
	s.switchRunningState(RunningStateStep)
	isAlive, changed := s.nextIteration()
	if !isAlive || !changed || (maxIter != 0 && iteration == maxIter) {
		finished = true
	}
}

//nextIteration ticks the universe under the write lock and updates the metrics
func (s *Simulation) nextIteration() (hasLiveEntities bool, changed bool) {
	s.universe.Lock()
	start := time.Now()
	copy(s.prev, s.universe.Cells())
	s.universe.TickN(s.options.TicksPerFrame)
	elapsed := time.Since(start)
	changed = !bytes.Equal(s.prev, s.universe.Cells())
	live := s.universe.LiveCells()
	generation := s.universe.Generation()
	s.universe.Unlock()

	s.state.Lock()
	s.state.LiveCells = live
	s.state.Generation = generation
	s.state.IterationTime = elapsed
	s.state.Unlock()
	return live > 0, changed
}

//clear clears the universe data, reset all counters
func (s *Simulation) clear() {
	s.universe.Lock()
	s.universe.KillAll()
	s.universe.Unlock()

	s.state.Lock()
	s.state.IterationNum = 0
	s.state.LiveCells = 0
	s.state.Unlock()
	s.switchRunningState(RunningStateManual)
	s.refreshView()
}

//refreshView calls Refresh event for all registered views
func (s *Simulation) refreshView() {
	for _, v := range s.views {
		v.Refresh()
	}
}
