package universe

/*
	Engine with a small buffer storing the next state of the current and previous rows only.
	The previous row is written back as the calculation moves to the next row,
	no row is written back while a row still to be calculated reads it.
	The last row wraps to the first one, which is already overwritten by then,
	so the first row is saved before the tick.
*/

const (
	rowPrev = iota
	rowCur
	rowFirst
)

func setupRowBuffEngine(u *Universe, _ *Options) {
	for i := range u.rowBuff {
		u.rowBuff[i] = newCells(u.width)
	}
	u.nextGeneration = u.rowBuffNextGeneration
}

func (u *Universe) rowBuffNextGeneration() {
	buff := &u.rowBuff
	u.readRow(buff[rowFirst], 0)
	firstWritten := false
	alive := func(row int, column int) bool {
		if row == 0 && firstWritten {
			return buff[rowFirst].get(column)
		}
		return u.cells.get(row*u.width + column)
	}

	for row := 0; row < u.height; row++ {
		for column := 0; column < u.width; column++ {
			state := u.cells.get(row*u.width + column)
			buff[rowCur].set(column, nextState(state, u.liveNeighbours(row, column, alive)))
		}
		if row > 0 {
			u.writeRow(buff[rowPrev], row-1)
			firstWritten = true
		}
		buff[rowPrev], buff[rowCur] = buff[rowCur], buff[rowPrev]
	}
	u.writeRow(buff[rowPrev], u.height-1)
}

func (u *Universe) readRow(dst cells, row int) {
	base := row * u.width
	for column := 0; column < u.width; column++ {
		dst.set(column, u.cells.get(base+column))
	}
}

func (u *Universe) writeRow(src cells, row int) {
	base := row * u.width
	for column := 0; column < u.width; column++ {
		u.cells.set(base+column, src.get(column))
	}
}
