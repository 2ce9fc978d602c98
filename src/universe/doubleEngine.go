package universe

/*
	Engine with two buffers
	All cells state is calculated to the scratch buffer and then the buffers are swapped
*/

func setupDoubleEngine(u *Universe, _ *Options) {
	u.scratch = newCells(u.size())
	u.nextGeneration = u.doubleNextGeneration
}

func (u *Universe) doubleNextGeneration() {
	u.computeSpan(u.cells, u.scratch, 0, u.size())
	u.cells, u.scratch = u.scratch, u.cells
}
