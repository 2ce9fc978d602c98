package universe

import "sort"

//tick engine names
const (
	EngineAlloc    = "alloc"
	EngineDouble   = "double"
	EngineRowBuff  = "rowbuf"
	EngineParallel = "parallel"
)

//engines set up the Universe's nextGeneration func
var engines = map[string]func(u *Universe, o *Options){
	EngineAlloc:    setupAllocEngine,
	EngineDouble:   setupDoubleEngine,
	EngineRowBuff:  setupRowBuffEngine,
	EngineParallel: setupParallelEngine,
}

//Engines returns the sorted names of the available tick engines
func Engines() []string {
	names := make([]string, 0, len(engines))
	for k := range engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//nextState is the B3/S23 rule
func nextState(alive bool, liveNeighbours int) bool {
	return liveNeighbours == 3 || (alive && liveNeighbours == 2)
}

//liveNeighbours counts the live cells among the 8 toroidal neighbours of row, column
//alive reads a cell of the current generation
func (u *Universe) liveNeighbours(row int, column int, alive func(row int, column int) bool) int {
	n := 0
	for _, dr := range [3]int{u.height - 1, 0, 1} {
		r := (row + dr) % u.height
		for _, dc := range [3]int{u.width - 1, 0, 1} {
			//skip my position
			if dr == 0 && dc == 0 {
				continue
			}
			if alive(r, (column+dc)%u.width) {
				n++
			}
		}
	}
	return n
}

//computeSpan writes the next state of cells [from, to) of cur into next
//from must be a multiple of 8: whole bytes of next are written, so spans never share a byte
func (u *Universe) computeSpan(cur cells, next cells, from int, to int) {
	alive := func(row int, column int) bool {
		return cur.get(row*u.width + column)
	}
	var b byte
	row, column := from/u.width, from%u.width
	for i := from; i < to; i++ {
		if nextState(cur.get(i), u.liveNeighbours(row, column, alive)) {
			b |= 1 << uint(i&7)
		}
		if i&7 == 7 || i == to-1 {
			next[i>>3] = b
			b = 0
		}
		column++
		if column == u.width {
			column = 0
			row++
		}
	}
}
