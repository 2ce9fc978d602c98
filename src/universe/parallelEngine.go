package universe

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

/*
	Engine with multithreaded computation algorithm
	the cells are split into byte aligned spans each of which is computed by individual goroutine into the scratch buffer
*/

const DefMinRowsPerWorker = 3 //minimum rows for one worker

//workArea describes the cells [from, to) computed by one worker
type workArea struct {
	from int
	to   int
}

func setupParallelEngine(u *Universe, o *Options) {
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	size := u.size()
	rowsPerWorker := u.height / workers
	if rowsPerWorker < DefMinRowsPerWorker {
		rowsPerWorker = DefMinRowsPerWorker
	} else if rowsPerWorker*workers < u.height {
		rowsPerWorker++
	}
	//round the span up to whole bytes
	span := (rowsPerWorker*u.width + 7) &^ 7
	u.workAreas = make([]workArea, 0, workers)
	for from := 0; from < size; from += span {
		to := from + span
		if to > size {
			to = size
		}
		u.workAreas = append(u.workAreas, workArea{from, to})
	}
	u.scratch = newCells(size)
	u.details["Workers"] = len(u.workAreas)
	u.details["Rows per worker"] = rowsPerWorker
	u.nextGeneration = u.parallelNextGeneration
}

//parallelNextGeneration starts goroutines, waits for them and swaps the buffers
func (u *Universe) parallelNextGeneration() {
	var g errgroup.Group
	cur, next := u.cells, u.scratch
	for _, wa := range u.workAreas {
		wa := wa
		g.Go(func() error {
			u.computeSpan(cur, next, wa.from, wa.to)
			return nil
		})
	}
	//fork-join only, the workers never fail
	_ = g.Wait()
	u.cells, u.scratch = u.scratch, u.cells
}
