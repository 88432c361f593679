package board

// LightSensor reads the LDR next to the display.
type LightSensor struct {
	adc ADC
}

// Level returns the measured darkness, from 0.0 (bright) to 1.0 (dark). The
// LDR pulls the input up as it gets darker.
func (l *LightSensor) Level() float64 {
	return Remap(float64(l.adc.Get()), 0, 65535, 0, 1)
}

// Raw returns the unscaled 16-bit ADC value.
func (l *LightSensor) Raw() uint16 {
	return l.adc.Get()
}
