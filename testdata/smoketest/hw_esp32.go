//go:build esp32

package main

import "github.com/cheapyellow/board"

func hardware() board.Hardware {
	return board.New2432S028R()
}
