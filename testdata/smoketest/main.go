package main

import (
	"time"

	"github.com/cheapyellow/board"
)

func main() {
	b, err := board.New(hardware(), board.Config{
		RGBMode:       board.RGBIntensity,
		EnableStorage: true,
	})
	if err != nil {
		panic(err)
	}

	// Assert that the display can be used with drivers that take a
	// drivers.Displayer.
	var _ interface {
		Size() (int16, int16)
		Display() error
	} = b.Display()

	var _ interface {
		ReadInput()
		NextEvent() board.KeyEvent
		Pressed() bool
	} = b.Buttons()

	b.ShowStatus("smoke test")
	b.RGB().Set(255, 0, 0)
	b.Speaker().PlayTone(440, 10*time.Millisecond, 0)
	if err := b.Storage().Mount(); err == nil {
		b.Storage().Unmount()
	}
	for i := 0; i < 10; i++ {
		b.Buttons().ReadInput()
		b.Buttons().NextEvent()
		if touch := b.Touches(); !touch.Empty() {
			b.DoubleTap(touch, 10)
		}
		time.Sleep(10 * time.Millisecond)
	}
	b.Shutdown()
}
