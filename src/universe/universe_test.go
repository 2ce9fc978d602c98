package universe

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func newTestUniverse(t *testing.T, engine string, width int, height int) *Universe {
	t.Helper()
	u, err := NewWithOptions(&Options{Width: width, Height: height, Engine: engine, Workers: 4, Seed: 42})
	if err != nil {
		t.Fatalf("new %s universe: %v", engine, err)
	}
	return u
}

//forEachEngine runs the test against every tick engine
func forEachEngine(t *testing.T, f func(t *testing.T, engine string)) {
	for _, e := range Engines() {
		e := e
		t.Run(e, func(t *testing.T) { f(t, e) })
	}
}

//liveSet returns the [row, column] coordinates of the live cells
func liveSet(u *Universe) map[[2]int]bool {
	s := map[[2]int]bool{}
	for row := 0; row < u.Height(); row++ {
		for column := 0; column < u.Width(); column++ {
			if alive, _ := u.Cell(row, column); alive {
				s[[2]int{row, column}] = true
			}
		}
	}
	return s
}

func expectLive(t *testing.T, u *Universe, expects [][2]int) {
	t.Helper()
	want := map[[2]int]bool{}
	for _, v := range expects {
		want[v] = true
	}
	got := liveSet(u)
	for row := 0; row < u.Height(); row++ {
		for column := 0; column < u.Width(); column++ {
			p := [2]int{row, column}
			if got[p] != want[p] {
				t.Fatalf("generation %d: cell (%d,%d) alive=%v, expected %v\n%s", u.Generation(), row, column, got[p], want[p], u)
			}
		}
	}
}

func TestNew_InvalidDimension(t *testing.T) {
	for _, d := range [][2]int{{0, 5}, {5, 0}, {0, 0}, {-1, 3}, {math.MaxInt, 1}, {math.MaxInt, 2}, {math.MaxInt / 3, 4}} {
		u, err := New(d[0], d[1])
		if !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("New(%d, %d) err = %v, expected ErrInvalidDimension", d[0], d[1], err)
		}
		if u != nil {
			t.Fatalf("New(%d, %d) returned a universe", d[0], d[1])
		}
	}
}

func TestNewWithOptions(t *testing.T) {
	if _, err := NewWithOptions(&Options{Width: 4, Height: 4, Engine: "gpu"}); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("err = %v, expected ErrUnknownEngine", err)
	}
	u, err := NewWithOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if u.Width() != DefWidth || u.Height() != DefHeight {
		t.Fatalf("default dimension %dx%d", u.Width(), u.Height())
	}
	if u.Details()["engine"] != EngineDouble {
		t.Fatalf("default engine %v", u.Details()["engine"])
	}
	if u.LiveCells() != 0 {
		t.Fatalf("new universe has %d live cells", u.LiveCells())
	}
}

func TestCells_Layout(t *testing.T) {
	for _, c := range []struct{ w, h, bytes int }{{5, 5, 4}, {8, 8, 8}, {3, 3, 2}, {1, 1, 1}, {64, 64, 512}} {
		u, err := New(c.w, c.h)
		if err != nil {
			t.Fatal(err)
		}
		if len(u.Cells()) != c.bytes {
			t.Fatalf("%dx%d: %d bytes, expected %d", c.w, c.h, len(u.Cells()), c.bytes)
		}
	}

	u, _ := New(5, 5)
	_ = u.ToggleCell(1, 2) //index 7
	_ = u.ToggleCell(1, 3) //index 8
	if u.Cells()[0] != 0x80 || u.Cells()[1] != 0x01 {
		t.Fatalf("cells = %08b, expected bit 7 of byte 0 and bit 0 of byte 1", u.Cells())
	}
}

func TestTick_AllDead(t *testing.T) {
	forEachEngine(t, func(t *testing.T, engine string) {
		u := newTestUniverse(t, engine, 9, 7)
		u.TickN(3)
		if u.LiveCells() != 0 {
			t.Fatalf("%d cells born on an empty universe", u.LiveCells())
		}
		if u.Generation() != 3 {
			t.Fatalf("generation %d, expected 3", u.Generation())
		}
	})
}

func TestTick_Blinker(t *testing.T) {
	forEachEngine(t, func(t *testing.T, engine string) {
		u := newTestUniverse(t, engine, 5, 5)
		horizontal := [][2]int{{2, 1}, {2, 2}, {2, 3}}
		vertical := [][2]int{{1, 2}, {2, 2}, {3, 2}}
		if err := u.Settle(horizontal); err != nil {
			t.Fatal(err)
		}
		u.Tick()
		expectLive(t, u, vertical)
		u.Tick()
		expectLive(t, u, horizontal)
	})
}

func TestTick_Block3x3(t *testing.T) {
	forEachEngine(t, func(t *testing.T, engine string) {
		u := newTestUniverse(t, engine, 7, 7)
		for row := 2; row <= 4; row++ {
			for column := 2; column <= 4; column++ {
				_ = u.ToggleCell(row, column)
			}
		}
		u.Tick()
		//corners survive with 3 neighbours, the rest of the block is overcrowded
		//and the middle of every side gets a birth
		expectLive(t, u, [][2]int{
			{2, 2}, {2, 4}, {4, 2}, {4, 4},
			{1, 3}, {3, 1}, {3, 5}, {5, 3},
		})
	})
}

func TestTick_Wrap(t *testing.T) {
	forEachEngine(t, func(t *testing.T, engine string) {
		u := newTestUniverse(t, engine, 5, 4)
		//three corners are neighbours of the fourth one across both edges
		_ = u.Settle([][2]int{{0, 0}, {0, 4}, {3, 4}})
		u.Tick()
		corners := [][2]int{{0, 0}, {0, 4}, {3, 4}, {3, 0}}
		expectLive(t, u, corners)
		u.Tick()
		expectLive(t, u, corners)
	})
}

func TestTick_GliderTravels(t *testing.T) {
	forEachEngine(t, func(t *testing.T, engine string) {
		u := newTestUniverse(t, engine, 8, 8)
		if err := u.Glider(2, 2); err != nil {
			t.Fatal(err)
		}
		start := liveSet(u)
		u.TickN(4)
		moved := make([][2]int, 0, len(start))
		for p := range start {
			moved = append(moved, [2]int{p[0] + 1, p[1] + 1})
		}
		expectLive(t, u, moved)

		//8 diagonal steps on an 8x8 torus bring it back
		u.TickN(28)
		same := make([][2]int, 0, len(start))
		for p := range start {
			same = append(same, p)
		}
		expectLive(t, u, same)
	})
}

func TestTick_PulsarPeriod(t *testing.T) {
	forEachEngine(t, func(t *testing.T, engine string) {
		u := newTestUniverse(t, engine, 21, 21)
		_ = u.Pulsar(10, 10)
		start := append([]byte(nil), u.Cells()...)
		u.Tick()
		if bytes.Equal(start, u.Cells()) {
			t.Fatal("pulsar did not change after one generation")
		}
		u.TickN(2)
		if !bytes.Equal(start, u.Cells()) {
			t.Fatalf("pulsar did not come back after 3 generations\n%s", u)
		}
	})
}

func TestTick_EnginesAgree(t *testing.T) {
	for _, dim := range [][2]int{{37, 23}, {8, 8}, {1, 9}, {13, 1}, {64, 40}} {
		ref := newTestUniverse(t, EngineAlloc, dim[0], dim[1])
		ref.Random()
		others := map[string]*Universe{}
		for _, e := range Engines() {
			u := newTestUniverse(t, e, dim[0], dim[1])
			copy(u.cells, ref.cells)
			others[e] = u
		}
		for gen := 0; gen < 40; gen++ {
			ref.Tick()
			for e, u := range others {
				u.Tick()
				if !bytes.Equal(ref.Cells(), u.Cells()) {
					t.Fatalf("%dx%d generation %d: %s engine differs from %s", dim[0], dim[1], gen+1, e, EngineAlloc)
				}
			}
		}
	}
}

func TestToggleCell(t *testing.T) {
	u := newTestUniverse(t, EngineDouble, 6, 4)
	u.Random()
	before := append([]byte(nil), u.Cells()...)
	was, _ := u.Cell(3, 5)
	if err := u.ToggleCell(3, 5); err != nil {
		t.Fatal(err)
	}
	if now, _ := u.Cell(3, 5); now == was {
		t.Fatal("toggle did not flip the cell")
	}
	if err := u.ToggleCell(3, 5); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, u.Cells()) {
		t.Fatal("toggling twice changed the universe")
	}

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 6}} {
		if err := u.ToggleCell(p[0], p[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("toggle (%d,%d) err = %v, expected ErrIndexOutOfRange", p[0], p[1], err)
		}
		if _, err := u.Cell(p[0], p[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("cell (%d,%d) err = %v, expected ErrIndexOutOfRange", p[0], p[1], err)
		}
	}
	if !bytes.Equal(before, u.Cells()) {
		t.Fatal("rejected toggle changed the universe")
	}
}

func TestSettle_AllOrNothing(t *testing.T) {
	u := newTestUniverse(t, EngineDouble, 4, 4)
	if err := u.Settle([][2]int{{0, 0}, {1, 1}, {4, 4}}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, expected ErrIndexOutOfRange", err)
	}
	if u.LiveCells() != 0 {
		t.Fatalf("rejected settle left %d live cells", u.LiveCells())
	}
}

func TestKillAll(t *testing.T) {
	u := newTestUniverse(t, EngineDouble, 30, 30)
	u.Random()
	_ = u.Pulsar(15, 15)
	u.KillAll()
	if u.LiveCells() != 0 {
		t.Fatalf("%d live cells after KillAll", u.LiveCells())
	}
	for i, b := range u.Cells() {
		if b != 0 {
			t.Fatalf("byte %d = %08b after KillAll", i, b)
		}
	}
}

func TestRandom(t *testing.T) {
	u := newTestUniverse(t, EngineDouble, 256, 256)
	total := 0
	const trials = 10
	for i := 0; i < trials; i++ {
		u.Random()
		total += u.LiveCells()
	}
	fraction := float64(total) / float64(trials*256*256)
	if fraction < 0.49 || fraction > 0.51 {
		t.Fatalf("live fraction %.4f, expected about 0.5", fraction)
	}

	small := newTestUniverse(t, EngineDouble, 5, 5)
	for i := 0; i < 20; i++ {
		small.Random()
		//25 cells use one bit of the last byte
		if tail := small.Cells()[3] >> 1; tail != 0 {
			t.Fatalf("bits past the last cell are set: %08b", small.Cells()[3])
		}
	}
}

func TestGlider(t *testing.T) {
	u := newTestUniverse(t, EngineDouble, 5, 5)
	if err := u.Glider(0, 0); err != nil {
		t.Fatal(err)
	}
	expectLive(t, u, [][2]int{{4, 0}, {0, 1}, {1, 4}, {1, 0}, {1, 1}})

	once := append([]byte(nil), u.Cells()...)
	_ = u.Glider(0, 0)
	if !bytes.Equal(once, u.Cells()) {
		t.Fatal("stamping the glider twice differs from stamping it once")
	}

	if err := u.Glider(5, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, expected ErrIndexOutOfRange", err)
	}
}

func TestStamp_Additive(t *testing.T) {
	u := newTestUniverse(t, EngineDouble, 9, 9)
	//(4,4) is the dead center of the glider's footprint
	_ = u.ToggleCell(4, 4)
	_ = u.Glider(4, 4)
	if alive, _ := u.Cell(4, 4); !alive {
		t.Fatal("stamping killed a live cell in the footprint")
	}
	if u.LiveCells() != len(Glider.Offsets)+1 {
		t.Fatalf("%d live cells, expected %d", u.LiveCells(), len(Glider.Offsets)+1)
	}
}

func TestPulsar(t *testing.T) {
	u := newTestUniverse(t, EngineDouble, 15, 15)
	if err := u.Pulsar(7, 7); err != nil {
		t.Fatal(err)
	}
	if u.LiveCells() != 48 {
		t.Fatalf("pulsar has %d cells, expected 48", u.LiveCells())
	}
	//the model fits the 13x13 box around the anchor
	for p := range liveSet(u) {
		if p[0] < 1 || p[0] > 13 || p[1] < 1 || p[1] > 13 {
			t.Fatalf("cell %v outside the pulsar box", p)
		}
	}
}

func TestString(t *testing.T) {
	u, _ := New(3, 2)
	_ = u.ToggleCell(0, 1)
	_ = u.ToggleCell(1, 2)
	want := "◼◻◼\n◼◼◻\n"
	if u.String() != want {
		t.Fatalf("String() = %q, expected %q", u.String(), want)
	}
}
