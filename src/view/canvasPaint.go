package view

import (
	"image/color"

	"lifeverse/src/simulation"
)

//canvas geometry and colors of the web page the engine was drawn on
const CellSize = 5

var (
	GridColor  = color.RGBA{0xCC, 0xCC, 0xCC, 0xFF}
	DeadColor  = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	AliveColor = color.RGBA{0x00, 0x00, 0x00, 0xFF}
)

//CanvasSize returns the pixel size of a width x height field: one pixel of grid line around every cell
func CanvasSize(width int, height int) (int, int) {
	return (CellSize+1)*width + 1, (CellSize+1)*height + 1
}

//CellAt maps the pixel x, y to the cell under it, clamped into the field
func CellAt(x int, y int, width int, height int) (row int, column int) {
	return clamp(y/(CellSize+1), height), clamp(x/(CellSize+1), width)
}

func clamp(v int, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

//PaintFrame fills buf with the RGBA pixels of the frame, buf must hold CanvasSize pixels
func PaintFrame(buf []byte, f simulation.Frame) {
	pw, ph := CanvasSize(f.Width, f.Height)
	step := CellSize + 1
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			c := GridColor
			if x%step != 0 && y%step != 0 {
				c = DeadColor
				if f.Alive(y/step, x/step) {
					c = AliveColor
				}
			}
			base := (y*pw + x) * 4
			buf[base+0] = c.R
			buf[base+1] = c.G
			buf[base+2] = c.B
			buf[base+3] = c.A
		}
	}
}
