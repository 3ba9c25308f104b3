//go:build !linux

package engine

import (
	"fmt"
	"math/rand"
)

type UringEngine struct {
}

func NewUring() *UringEngine {
	return &UringEngine{}
}

func (e *UringEngine) Name() string { return "uring" }

func (e *UringEngine) Run(params Params, rng *rand.Rand) (*Result, error) {
	return nil, fmt.Errorf("uring engine is only supported on Linux")
}
