package board

import "errors"

// RGBMode selects how the RGB LED is driven. It is fixed when the board is
// constructed.
type RGBMode uint8

const (
	// Each channel is either on or off.
	RGBBinary RGBMode = iota

	// Each channel has an intensity between 0 and 255, using PWM.
	RGBIntensity
)

func (m RGBMode) String() string {
	switch m {
	case RGBBinary:
		return "binary"
	case RGBIntensity:
		return "intensity"
	default:
		return "unknown"
	}
}

// Frequency of the LED PWM channels in intensity mode.
const rgbFrequency = 200

// RGB controls the RGB status LED. The LED is wired active low: driving a line
// low turns the channel on.
type RGB struct {
	mode RGBMode
	pins [3]OutputPin
	pwms [3]PWM
}

func newBinaryRGB(pins [3]OutputPin) *RGB {
	rgb := &RGB{mode: RGBBinary, pins: pins}
	rgb.Off()
	return rgb
}

func newIntensityRGB(pwms [3]PWM) *RGB {
	rgb := &RGB{mode: RGBIntensity, pwms: pwms}
	rgb.Off()
	return rgb
}

// Mode returns the mode this LED was configured with.
func (l *RGB) Mode() RGBMode {
	return l.mode
}

// Set the LED color.
//
// In binary mode every nonzero channel is on:
//
//	r,g,b
//	0,0,0    off
//	0,0,1    blue
//	0,1,0    green
//	0,1,1    cyan
//	1,0,0    red
//	1,1,0    yellow
//	1,0,1    pink
//	1,1,1    white
//
// In intensity mode every channel is an intensity between 0 and 255. Values
// outside this range are clamped.
func (l *RGB) Set(r, g, b int) error {
	if l.mode == RGBBinary {
		// Active low: a logical "on" drives the line low.
		for i, v := range [3]int{r, g, b} {
			l.pins[i].Set(Clamp(v, 0, 1) == 0)
		}
		return nil
	}
	var err error
	for i, v := range [3]int{r, g, b} {
		err = errors.Join(err, l.pwms[i].SetDuty(intensityDuty(v)))
	}
	return err
}

// Off turns all channels off.
func (l *RGB) Off() error {
	return l.Set(0, 0, 0)
}

// Turn the LED off and release the PWM channels in intensity mode. The LED
// cannot be used afterwards.
func (l *RGB) release() error {
	err := l.Off()
	if l.mode == RGBIntensity {
		for _, pwm := range l.pwms {
			err = errors.Join(err, pwm.Release())
		}
	}
	return err
}

// Convert an 8-bit intensity to the inverted 10-bit duty cycle. The scaling
// is done in floating point and truncated, so 128 maps to 509.
func intensityDuty(v int) uint16 {
	duty := Remap(float64(Clamp(v, 0, 255)), 0, 255, MaxDuty, 0)
	return uint16(Clamp(duty, 0, MaxDuty))
}
