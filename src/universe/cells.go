package universe

import "math/bits"

// cells is the bit-packed cell storage: bit i of the logical row-major index
// lives at (c[i/8] >> (i%8)) & 1
type cells []byte

//newCells allocates zeroed storage for size cells
func newCells(size int) cells {
	return make(cells, (size+7)/8)
}

func (c cells) get(i int) bool {
	return c[i>>3]&(1<<uint(i&7)) != 0
}

func (c cells) set(i int, alive bool) {
	if alive {
		c[i>>3] |= 1 << uint(i&7)
	} else {
		c[i>>3] &^= 1 << uint(i&7)
	}
}

func (c cells) flip(i int) {
	c[i>>3] ^= 1 << uint(i&7)
}

func (c cells) clear() {
	for i := range c {
		c[i] = 0
	}
}

func (c cells) count() int {
	n := 0
	for _, b := range c {
		n += bits.OnesCount8(b)
	}
	return n
}

//maskTail zeroes the bits past the last meaningful cell
func (c cells) maskTail(size int) {
	if r := size & 7; r != 0 {
		c[len(c)-1] &= byte(1)<<uint(r) - 1
	}
}
