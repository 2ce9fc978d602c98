package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/integrii/flaggy"

	"lifeverse/src/simulation"
	"lifeverse/src/universe"
	"lifeverse/src/view"
)

type EnvOptions struct {
	interactive bool
	canvas      bool
	randomData  bool
	template    string
	file        string
	scale       int
	tps         int
}

func main() {
	eo, so := initOptions()

	var stateCh chan simulation.Status
	if !eo.interactive && !eo.canvas {
		stateCh = make(chan simulation.Status, 10) //the buffered channel to getting the simulation status
	}

	s, err := simulation.New(so, stateCh)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	if err := seed(s, eo); err != nil {
		log.Fatalf("seed: %v", err)
	}

	switch {
	case eo.canvas:
		c, err := view.NewCanvas(eo.scale, eo.tps)
		if err != nil {
			log.Fatal(err)
		}
		s.RegisterViewer(c)
		c.Start()
	case eo.interactive:
		v := view.NewViewTerminal()
		s.RegisterViewer(v)
		v.Start()
	default:
		runBatch(s)
	}
	s.Close()
	<-s.Done()
}

//seed populates the universe before the first tick: the template at the center, random data otherwise
func seed(s *simulation.Simulation, eo *EnvOptions) error {
	if eo.file != "" {
		f, err := os.Open(eo.file)
		if err != nil {
			return err
		}
		p, err := universe.ParsePlaintext(eo.file, f)
		_ = f.Close()
		if err != nil {
			return err
		}
		s.AddTemplate(p)
		eo.template = p.Name
	}
	if eo.template == "" {
		if eo.randomData {
			s.Random()
		}
		return nil
	}
	o := s.Options().Universe
	return s.SettleTemplate(eo.template, o.Height/2, o.Width/2)
}

func runBatch(s *simulation.Simulation) {
	out := view.NewConsoleOut(os.Stdout)
	s.RegisterViewer(out)
	out.Start()

	startTime := time.Now()
	s.Run()
	for st := range s.StateCh() {
		if st.RunningMode == simulation.RunningStateFinished {
			totalTime := time.Since(startTime).Round(time.Millisecond)
			fmt.Printf("Finished, iteration is: %v, total running time: %v\n", st.IterationNum, totalTime)
			break
		}
	}
}

func initOptions() (eo *EnvOptions, so *simulation.Options) {
	o := simulation.DefaultOptions
	so = &o
	eo = &EnvOptions{randomData: true, scale: 2, tps: 60}
	var seedValue uint64

	flaggy.SetName("lifeverse")
	flaggy.SetDescription("\"The Life\" game simulation on a toroidal bit-packed universe")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&so.Universe.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&so.Universe.Height, "y", "height", "Height of a simulation field")
	flaggy.String(&so.Universe.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.Engines(), "|")+"]")
	flaggy.Int(&so.Universe.Workers, "w", "workers", "Goroutines of the parallel engine, 0 means one per CPU")
	flaggy.UInt64(&seedValue, "", "seed", "Seed of the random data, 0 means seeded from the clock")
	flaggy.Duration(&so.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&so.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 means no limit")
	flaggy.Int(&so.TicksPerFrame, "", "ticks", "Generations computed per step")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.canvas, "c", "canvas", "Start the canvas window (requires the ebiten build tag)")
	flaggy.Int(&eo.scale, "", "scale", "Canvas pixel scale")
	flaggy.Int(&eo.tps, "", "tps", "Canvas frames per second")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.template, "t", "template", "Template stamped at the center ["+strings.Join(universe.PatternNames(), "|")+"]")
	flaggy.String(&eo.file, "f", "file", "Plaintext (.cells) pattern stamped at the center")

	flaggy.Parse()

	so.Universe.Seed = seedValue
	if eo.template != "" {
		if _, ok := universe.Patterns()[eo.template]; !ok {
			flaggy.ShowHelpAndExit("unknown template")
		}
	}
	if eo.canvas {
		//the canvas ticks every frame like the web page did
		so.MaxSteps = 0
	}
	return
}
