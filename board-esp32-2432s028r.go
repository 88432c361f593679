//go:build esp32

package board

import (
	"machine"

	"tinygo.org/x/drivers/xpt2046"
)

// New2432S028R returns the peripherals of the ESP32-2432S028R, the first
// 2.8" Cheap Yellow Display with a resistive touch panel.
func New2432S028R() Hardware {
	return &board2432S028R{}
}

type board2432S028R struct {
	touch xpt2046.Device
}

func (h *board2432S028R) Revision() Revision {
	return Rev2432S028R
}

func (h *board2432S028R) ConfigureDisplay() (Displayer, error) {
	return configureESP32Display(), nil
}

func (h *board2432S028R) ConfigureBacklight() (OutputPin, error) {
	return configureESP32Output(machine.GPIO21, false), nil
}

// Configure the XPT2046 resistive touch controller. It is wired to pins that
// can't be routed to the second hardware SPI bus (which the SD card uses), so
// the driver bit-bangs the bus.
func (h *board2432S028R) ConfigureTouch(onTouch func(x, y int)) (TouchTransport, error) {
	h.touch = xpt2046.New(
		machine.GPIO25, // CLK
		machine.GPIO33, // CS
		machine.GPIO32, // DIN (MOSI)
		machine.GPIO39, // DOUT (MISO), input only
		machine.GPIO36, // IRQ, input only
	)
	err := h.touch.Configure(&xpt2046.Config{
		Precision: 10,
	})
	if err != nil {
		return nil, err
	}

	rev := h.Revision()
	read := func() (x, y int, ok bool) {
		point := h.touch.ReadTouchPoint()
		if point.Z == 0 {
			return 0, 0, false
		}
		// point.Y is already flipped by the driver, see Rev2432S028R.
		x, y = rev.Calibration.Apply(point.X, point.Y, rev.Width, rev.Height)
		return x, y, true
	}
	return startTouchWorker(machine.GPIO36, read, onTouch)
}

func (h *board2432S028R) ConfigureButton() (InputPin, error) {
	return configureESP32Button(), nil
}

func (h *board2432S028R) ConfigureLightSensor() (ADC, error) {
	return configureESP32LightSensor(), nil
}

func (h *board2432S028R) ConfigureLEDPins() ([3]OutputPin, error) {
	return configureESP32LEDPins(), nil
}

func (h *board2432S028R) ConfigureLEDPWM(frequency uint32) ([3]PWM, error) {
	return configureESP32LEDPWM(frequency), nil
}

func (h *board2432S028R) ConfigureSpeaker() (PWM, error) {
	return configureESP32Speaker(), nil
}

func (h *board2432S028R) ConfigureStorage() (CardProber, error) {
	return esp32CardProber{}, nil
}
