package board

// Subsystem names one of the peripherals of the board. It is used as the owner
// name in the resource registry and in log messages.
type Subsystem string

// All subsystems, in construction order.
const (
	SubsystemDisplay   Subsystem = "display"
	SubsystemBacklight Subsystem = "backlight"
	SubsystemTouch     Subsystem = "touch"
	SubsystemButton    Subsystem = "button"
	SubsystemLight     Subsystem = "light"
	SubsystemRGB       Subsystem = "rgb"
	SubsystemSpeaker   Subsystem = "speaker"
	SubsystemStorage   Subsystem = "storage"
)

var subsystems = [...]Subsystem{
	SubsystemDisplay,
	SubsystemBacklight,
	SubsystemTouch,
	SubsystemButton,
	SubsystemLight,
	SubsystemRGB,
	SubsystemSpeaker,
	SubsystemStorage,
}

// Plan lists the buses and pins each subsystem needs.
type Plan map[Subsystem][]ResourceID

// Validate claims every resource of the plan in a scratch registry and returns
// the first conflict.
func (p Plan) Validate() error {
	r := NewRegistry()
	for _, sub := range subsystems {
		if err := r.ClaimAll(sub, p[sub]); err != nil {
			return err
		}
	}
	return nil
}

// Calibration converts raw touch controller readings to panel pixels.
type Calibration struct {
	// Swap the raw axes before scaling. Used for controllers that report in
	// the panel's native portrait orientation while the display is used in
	// landscape.
	SwapXY bool

	// Raw readings at the left/right and top/bottom edge of the panel.
	XMin, XMax int
	YMin, YMax int
}

// Apply maps a raw reading to a pixel inside a width*height panel.
func (c Calibration) Apply(rawX, rawY int, width, height int16) (x, y int) {
	if c.SwapXY {
		rawX, rawY = rawY, rawX
	}
	x = remapClamp(rawX, c.XMin, c.XMax, 0, int(width)-1)
	y = remapClamp(rawY, c.YMin, c.YMax, 0, int(height)-1)
	return x, y
}

// Revision describes one hardware revision of the display module.
type Revision struct {
	// Short name, for example "esp32-2432s028r".
	Name string

	// Display size in pixels, in the orientation the board is used.
	Width, Height int16

	// Axis the touch panel is mirrored against relative to the display.
	Mirror Mirror

	Calibration Calibration

	Plan Plan
}

// Orientation returns the touch orientation correction for this revision.
func (r Revision) Orientation() Orientation {
	return Orientation{Width: int(r.Width), Height: int(r.Height), Mirror: r.Mirror}
}

// Rev2432S028R is the ESP32-2432S028R: 2.8" ILI9341 display with a resistive
// XPT2046 touch controller. The touch Y axis is mirrored, but the xpt2046
// driver already reports Y as 4096-raw, so no further mirror is needed.
var Rev2432S028R = Revision{
	Name:   "esp32-2432s028r",
	Width:  320,
	Height: 240,
	Mirror: MirrorNone,
	// Raw 12-bit edges 100..1962 and 100..1900, as reported by the driver:
	// scaled to 16 bits, with Y flipped.
	Calibration: Calibration{
		XMin: 100 << 4, XMax: 1962 << 4,
		YMin: (4096 - 1900) << 4, YMax: (4096 - 100) << 4,
	},
	Plan: Plan{
		SubsystemDisplay:   {BusHSPI, GPIO(14), GPIO(13), GPIO(12), GPIO(15), GPIO(2)},
		SubsystemBacklight: {GPIO(21)},
		SubsystemTouch:     {BusTouchSPI, GPIO(25), GPIO(32), GPIO(39), GPIO(33), GPIO(36)},
		SubsystemButton:    {GPIO(0)},
		SubsystemLight:     {GPIO(34)},
		SubsystemRGB:       {GPIO(4), GPIO(16), GPIO(17)},
		SubsystemSpeaker:   {GPIO(26)},
		SubsystemStorage:   {BusVSPI, GPIO(18), GPIO(19), GPIO(23), GPIO(5)},
	},
}

// Rev2432S024C is the ESP32-2432S024C: 2.4" ILI9341 display with a capacitive
// CST820 touch controller on I2C. The touch X axis is mirrored.
var Rev2432S024C = Revision{
	Name:   "esp32-2432s024c",
	Width:  320,
	Height: 240,
	Mirror: MirrorX,
	// The controller reports pixels in portrait orientation.
	Calibration: Calibration{
		SwapXY: true,
		XMax:   319,
		YMax:   239,
	},
	Plan: Plan{
		SubsystemDisplay:   {BusHSPI, GPIO(14), GPIO(13), GPIO(12), GPIO(15), GPIO(2)},
		SubsystemBacklight: {GPIO(27)},
		SubsystemTouch:     {BusI2C0, GPIO(33), GPIO(32), GPIO(21), GPIO(25)},
		SubsystemButton:    {GPIO(0)},
		SubsystemLight:     {GPIO(34)},
		SubsystemRGB:       {GPIO(4), GPIO(16), GPIO(17)},
		SubsystemSpeaker:   {GPIO(26)},
		SubsystemStorage:   {BusVSPI, GPIO(18), GPIO(19), GPIO(23), GPIO(5)},
	},
}
