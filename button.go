package board

// Buttons reads the boot button.
type Buttons struct {
	pin           InputPin
	state         bool
	previousState bool
}

func newButtons(pin InputPin) *Buttons {
	return &Buttons{pin: pin}
}

// ReadInput samples the button. It must be called before NextEvent.
func (b *Buttons) ReadInput() {
	// The button pulls GPIO0 low when pressed.
	b.state = !b.pin.Get()
}

// NextEvent returns the next press or release event since the last call, or
// NoKeyEvent if the button didn't change.
func (b *Buttons) NextEvent() KeyEvent {
	if b.state == b.previousState {
		return NoKeyEvent
	}
	e := KeyEvent(KeyBoot)
	if !b.state {
		e |= keyReleased
	}
	b.previousState = b.state
	return e
}

// Pressed returns whether the button was down during the last ReadInput.
func (b *Buttons) Pressed() bool {
	return b.state
}
