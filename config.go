package board

import (
	"log/slog"
	"time"
)

// Config holds the construction parameters of a Board. It is read once, by
// New.
type Config struct {
	// How the RGB LED is driven. The default is RGBBinary.
	RGBMode RGBMode

	// Default speaker gain (duty cycle), 0..1023. Zero selects
	// DefaultSpeakerGain. Out of range values are clamped.
	SpeakerGain int

	// Enable the SD card. When disabled, Storage().Mount always fails with
	// ErrUnavailable.
	EnableStorage bool

	// Mount point of the SD card. The default is DefaultMountPath.
	MountPath string

	// Override the touch mirror axis of the board revision. The zero value
	// keeps the revision's setting.
	Mirror Mirror

	// How long the shutdown notice stays on screen. Zero selects the default
	// of 2 seconds, a negative value disables the wait.
	ShutdownDwell time.Duration

	// Logger for diagnostics. The default is slog.Default().
	Logger *slog.Logger
}

const defaultShutdownDwell = 2 * time.Second

func (c Config) withDefaults() Config {
	if c.SpeakerGain == 0 {
		c.SpeakerGain = DefaultSpeakerGain
	}
	c.SpeakerGain = Clamp(c.SpeakerGain, 0, MaxDuty)
	if c.MountPath == "" {
		c.MountPath = DefaultMountPath
	}
	if c.ShutdownDwell == 0 {
		c.ShutdownDwell = defaultShutdownDwell
	}
	if c.ShutdownDwell < 0 {
		c.ShutdownDwell = 0
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
