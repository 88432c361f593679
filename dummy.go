package board

// This file contains dummy devices, for peripherals that are disabled or not
// present on a particular board.

// Dummy SD card prober that never finds a card.
// Used when storage is disabled in the board configuration.
type noCard struct{}

func (noCard) Probe() (Card, error) {
	return nil, ErrUnavailable
}

// Dummy light sensor that always reads fully lit.
// Used for boards without an LDR.
type noLightSensor struct{}

func (noLightSensor) Get() uint16 {
	return 0
}

// Dummy button input that is never pressed (the line idles high).
// Used when the boot button could not be configured.
type noButton struct{}

func (noButton) Get() bool {
	return true
}
