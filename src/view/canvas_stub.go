//go:build !ebiten

package view

import (
	"errors"

	"lifeverse/src/simulation"
)

var ErrNoCanvas = errors.New("the canvas viewer requires building with the 'ebiten' tag")

//Canvas is a placeholder that satisfies the API expected by the GUI build
type Canvas struct{}

//NewCanvas reports that the ebiten build tag is missing
func NewCanvas(int, int) (*Canvas, error) {
	return nil, ErrNoCanvas
}

func (c *Canvas) Register(*simulation.Simulation) {}
func (c *Canvas) Refresh()                        {}
func (c *Canvas) Start()                          {}
