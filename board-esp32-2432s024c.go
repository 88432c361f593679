//go:build esp32

package board

import (
	"machine"
	"time"
)

// New2432S024C returns the peripherals of the ESP32-2432S024C, the 2.4"
// variant with a capacitive touch panel.
func New2432S024C() Hardware {
	return &board2432S024C{}
}

// I2C address of the CST820 touch controller.
const cst820Address = 0x15

type board2432S024C struct {
	touchData [6]byte
}

func (h *board2432S024C) Revision() Revision {
	return Rev2432S024C
}

func (h *board2432S024C) ConfigureDisplay() (Displayer, error) {
	return configureESP32Display(), nil
}

func (h *board2432S024C) ConfigureBacklight() (OutputPin, error) {
	return configureESP32Output(machine.GPIO27, false), nil
}

// Configure the CST820 capacitive touch controller. It uses the same register
// layout as the CST816S found in many smartwatches.
func (h *board2432S024C) ConfigureTouch(onTouch func(x, y int)) (TouchTransport, error) {
	// Reset the controller.
	rst := configureESP32Output(machine.GPIO25, false)
	time.Sleep(5 * time.Millisecond)
	rst.High()
	time.Sleep(50 * time.Millisecond)

	machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GPIO33,
		SCL:       machine.GPIO32,
	})

	irq := machine.GPIO21
	irq.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	rev := h.Revision()
	read := func() (x, y int, ok bool) {
		data := h.touchData[:]
		if err := machine.I2C0.ReadRegister(cst820Address, 1, data); err != nil {
			return 0, 0, false
		}
		if data[1]&0x0f == 0 {
			// Finger already lifted.
			return 0, 0, false
		}
		rawX := int(data[2]&0xf)<<8 | int(data[3])
		rawY := int(data[4]&0xf)<<8 | int(data[5])
		x, y = rev.Calibration.Apply(rawX, rawY, rev.Width, rev.Height)
		return x, y, true
	}
	return startTouchWorker(irq, read, onTouch)
}

func (h *board2432S024C) ConfigureButton() (InputPin, error) {
	return configureESP32Button(), nil
}

func (h *board2432S024C) ConfigureLightSensor() (ADC, error) {
	return configureESP32LightSensor(), nil
}

func (h *board2432S024C) ConfigureLEDPins() ([3]OutputPin, error) {
	return configureESP32LEDPins(), nil
}

func (h *board2432S024C) ConfigureLEDPWM(frequency uint32) ([3]PWM, error) {
	return configureESP32LEDPWM(frequency), nil
}

func (h *board2432S024C) ConfigureSpeaker() (PWM, error) {
	return configureESP32Speaker(), nil
}

func (h *board2432S024C) ConfigureStorage() (CardProber, error) {
	return esp32CardProber{}, nil
}
