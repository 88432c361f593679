//go:build !baremetal

package main

import (
	"github.com/cheapyellow/board"
	"github.com/cheapyellow/board/simulator"
)

func hardware() board.Hardware {
	return simulator.New()
}
