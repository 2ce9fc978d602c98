package universe

/*
	The simplest engine: creates the new cells buffer with full size on each tick
	All cells state is calculated to the new buffer and then this buffer replaces the old one
*/

func setupAllocEngine(u *Universe, _ *Options) {
	u.nextGeneration = u.allocNextGeneration
}

func (u *Universe) allocNextGeneration() {
	next := newCells(u.size())
	u.computeSpan(u.cells, next, 0, u.size())
	u.cells = next
}
