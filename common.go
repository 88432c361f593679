package board

// Key is a single button on the board.
type Key uint8

// List of all supported key codes.
const (
	NoKey Key = iota

	// The BOOT button next to the USB connector. It is connected to GPIO0,
	// which is also a strapping pin: holding it down during reset enters the
	// ROM bootloader.
	KeyBoot
)

// KeyEvent is a single key press or release event.
type KeyEvent uint16

const (
	NoKeyEvent KeyEvent = iota // No key event was available.

	keyReleased = KeyEvent(1 << 15) // The upper bit is set when this is a release event
)

// Key returns the key code for this key event.
func (k KeyEvent) Key() Key {
	return Key(k) // lower 8 bits are the key code
}

// Pressed returns whether this event indicates a key press event. It returns
// true for a press, false for a release.
func (k KeyEvent) Pressed() bool {
	return k&keyReleased == 0
}
