package board

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// MaxDuty is the highest duty cycle value accepted by PWM.SetDuty. Duty cycles
// use a 10-bit scale on this board.
const MaxDuty = 1023

// OutputPin is a digital output line.
type OutputPin interface {
	Set(high bool)
}

// InputPin is a digital input line.
type InputPin interface {
	Get() bool
}

// ADC is an analog input, returning a 16-bit sample.
type ADC interface {
	Get() uint16
}

// PWM is a single pulse-width output channel.
type PWM interface {
	SetFrequency(hz uint32) error

	// Set the duty cycle, 0 ≤ duty ≤ MaxDuty.
	SetDuty(duty uint16) error

	// Stop the output and release the underlying line.
	Release() error
}

// The display interface used by the board. The drawing primitives are
// provided by the display driver; the board only needs enough of it to write
// a status message and to release it on shutdown.
type Displayer interface {
	drivers.Displayer

	FillRectangle(x, y, width, height int16, c color.RGBA) error

	// Put the display controller in its lowest power state and release the
	// bus. The display cannot be used afterwards.
	Release() error
}

// TouchTransport is a configured touch controller. It delivers samples through
// the callback passed to Hardware.ConfigureTouch until Release is called.
type TouchTransport interface {
	Release() error
}

// CardProber performs the low-level initialization of the SD card. Probing
// may be attempted any number of times.
type CardProber interface {
	Probe() (Card, error)
}

// Card is an initialized SD card that can be mounted as a filesystem.
type Card interface {
	Mount(path string) error
	Unmount(path string) error
}

// Hardware is the set of peripheral bindings for a single physical board (or
// a simulation of one). Every method is called at most once, by New, in the
// order they are listed here.
type Hardware interface {
	// Revision returns the board revision these bindings drive.
	Revision() Revision

	// Configure the display transport and controller.
	ConfigureDisplay() (Displayer, error)

	// Configure the backlight line. It is switched on by the board right
	// after configuration.
	ConfigureBacklight() (OutputPin, error)

	// Configure the touch controller and register its interrupt handler.
	// onTouch is called asynchronously with calibrated panel coordinates
	// (before mirroring) for every sample the controller produces. It never
	// blocks.
	ConfigureTouch(onTouch func(x, y int)) (TouchTransport, error)

	// Configure the boot button input (active low).
	ConfigureButton() (InputPin, error)

	// Configure the light sensor (LDR) input.
	ConfigureLightSensor() (ADC, error)

	// Configure the three RGB LED lines (red, green, blue) as plain digital
	// outputs, initially high (off).
	ConfigureLEDPins() ([3]OutputPin, error)

	// Configure the three RGB LED lines (red, green, blue) as PWM outputs at
	// the given frequency.
	ConfigureLEDPWM(frequency uint32) ([3]PWM, error)

	// Configure the speaker PWM output.
	ConfigureSpeaker() (PWM, error)

	// Return the SD card prober. This must not touch the card yet.
	ConfigureStorage() (CardProber, error)
}
