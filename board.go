package board

import (
	"errors"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// Board is a configured display module with all of its peripherals. Create
// one with New and pass it around; there is no package-level instance.
type Board struct {
	rev      Revision
	orient   Orientation
	logger   *slog.Logger
	registry *Registry
	sleep    func(time.Duration)
	dwell    time.Duration

	display   Displayer
	backlight OutputPin
	touch     TouchTransport
	buttons   *Buttons
	light     *LightSensor
	rgb       *RGB
	speaker   *Speaker
	storage   *Storage

	touches touchStore
	taps    TapDetector

	lock     sync.Mutex
	shutdown bool
}

var (
	statusFont       = &freemono.Regular9pt7b
	statusForeground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	statusBackground = color.RGBA{A: 255}
)

// New configures every peripheral of the board, in this order: display,
// backlight, touch, boot button, light sensor, RGB LED, speaker, SD card.
//
// A failure to configure the display, backlight, touch, RGB LED or speaker is
// fatal: everything configured so far is released again and an ErrHardwareInit
// error is returned. The boot button and light sensor fall back to dummy
// inputs. The SD card is not touched until the first Storage().Mount call.
func New(hw Hardware, cfg Config) (*Board, error) {
	return newBoard(hw, cfg, time.Sleep)
}

func newBoard(hw Hardware, cfg Config, sleep func(time.Duration)) (*Board, error) {
	cfg = cfg.withDefaults()
	rev := hw.Revision()
	b := &Board{
		rev:      rev,
		orient:   rev.Orientation(),
		logger:   cfg.Logger,
		registry: NewRegistry(),
		sleep:    sleep,
		dwell:    cfg.ShutdownDwell,
	}
	if cfg.Mirror != MirrorDefault {
		b.orient.Mirror = cfg.Mirror
	}
	if err := b.configure(hw, cfg); err != nil {
		b.logger.Error("failed to configure board", "revision", rev.Name, "err", err)
		b.release()
		return nil, err
	}
	b.logger.Info("board ready", "revision", rev.Name, "rgb", cfg.RGBMode.String())
	return b, nil
}

func (b *Board) configure(hw Hardware, cfg Config) error {
	// Display.
	if err := b.claim(SubsystemDisplay); err != nil {
		return err
	}
	display, err := hw.ConfigureDisplay()
	if err != nil {
		return wrapErr(ErrHardwareInit, SubsystemDisplay, "configure", err)
	}
	b.display = display

	// Backlight, switched on right away.
	if err := b.claim(SubsystemBacklight); err != nil {
		return err
	}
	backlight, err := hw.ConfigureBacklight()
	if err != nil {
		return wrapErr(ErrHardwareInit, SubsystemBacklight, "configure", err)
	}
	b.backlight = backlight
	b.backlight.Set(true)

	// Touch. This registers the interrupt handler, so samples may arrive from
	// here on.
	if err := b.claim(SubsystemTouch); err != nil {
		return err
	}
	touch, err := hw.ConfigureTouch(b.onTouch)
	if err != nil {
		return wrapErr(ErrHardwareInit, SubsystemTouch, "configure", err)
	}
	b.touch = touch

	// Boot button.
	if err := b.claim(SubsystemButton); err != nil {
		return err
	}
	button, err := hw.ConfigureButton()
	if err != nil {
		b.logger.Warn("boot button unavailable", "subsystem", SubsystemButton, "err", err)
		button = noButton{}
	}
	b.buttons = newButtons(button)

	// Light sensor.
	if err := b.claim(SubsystemLight); err != nil {
		return err
	}
	adc, err := hw.ConfigureLightSensor()
	if err != nil {
		b.logger.Warn("light sensor unavailable", "subsystem", SubsystemLight, "err", err)
		adc = noLightSensor{}
	}
	b.light = &LightSensor{adc: adc}

	// RGB LED. The mode can't be changed afterwards.
	if err := b.claim(SubsystemRGB); err != nil {
		return err
	}
	switch cfg.RGBMode {
	case RGBIntensity:
		pwms, err := hw.ConfigureLEDPWM(rgbFrequency)
		if err != nil {
			return wrapErr(ErrHardwareInit, SubsystemRGB, "configure pwm", err)
		}
		b.rgb = newIntensityRGB(pwms)
	default:
		pins, err := hw.ConfigureLEDPins()
		if err != nil {
			return wrapErr(ErrHardwareInit, SubsystemRGB, "configure pins", err)
		}
		b.rgb = newBinaryRGB(pins)
	}

	// Speaker, initially silent.
	if err := b.claim(SubsystemSpeaker); err != nil {
		return err
	}
	pwm, err := hw.ConfigureSpeaker()
	if err != nil {
		return wrapErr(ErrHardwareInit, SubsystemSpeaker, "configure", err)
	}
	speaker, err := newSpeaker(pwm, cfg.SpeakerGain, b.sleep)
	if err != nil {
		pwm.Release()
		return wrapErr(ErrHardwareInit, SubsystemSpeaker, "silence", err)
	}
	b.speaker = speaker

	// SD card. Only the prober is created here.
	var prober CardProber = noCard{}
	if cfg.EnableStorage {
		if err := b.claim(SubsystemStorage); err != nil {
			return err
		}
		p, err := hw.ConfigureStorage()
		if err != nil {
			b.logger.Warn("failed to set up SD card", "subsystem", SubsystemStorage, "err", err)
			b.registry.ReleaseAll(SubsystemStorage)
		} else {
			prober = p
		}
	}
	b.storage = newStorage(prober, cfg.MountPath, b.logger)
	return nil
}

// Claim all resources for a subsystem, as listed in the revision plan.
func (b *Board) claim(sub Subsystem) error {
	if err := b.registry.ClaimAll(sub, b.rev.Plan[sub]); err != nil {
		return wrapErr(ErrHardwareInit, sub, "claim resources", err)
	}
	return nil
}

// Touch interrupt path. This must not block.
func (b *Board) onTouch(x, y int) {
	x, y = b.orient.Apply(x, y)
	b.touches.put(TouchSample{X: x, Y: y})
}

// Revision returns the hardware revision of this board.
func (b *Board) Revision() Revision {
	return b.rev
}

// Size returns the display size in pixels.
func (b *Board) Size() (width, height int16) {
	return b.rev.Width, b.rev.Height
}

// Display returns the display, for use with a drawing library.
func (b *Board) Display() Displayer {
	return b.display
}

// Buttons returns the boot button.
func (b *Board) Buttons() *Buttons {
	return b.buttons
}

// RGB returns the RGB status LED.
func (b *Board) RGB() *RGB {
	return b.rgb
}

// Speaker returns the piezo speaker.
func (b *Board) Speaker() *Speaker {
	return b.speaker
}

// Storage returns the SD card manager.
func (b *Board) Storage() *Storage {
	return b.storage
}

// Resources returns the registry recording the owner of each bus and pin.
func (b *Board) Resources() *Registry {
	return b.registry
}

// Light returns the measured darkness, from 0.0 (bright) to 1.0 (dark).
func (b *Board) Light() float64 {
	return b.light.Level()
}

// MaxBrightness returns the maximum backlight level. The backlight is either
// on or off.
func (b *Board) MaxBrightness() int {
	return 1
}

// SetBrightness sets the backlight level, 0 ≤ level ≤ MaxBrightness. A value
// of 0 turns the backlight off. It does nothing after Shutdown.
func (b *Board) SetBrightness(level int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.shutdown {
		return
	}
	b.backlight.Set(Clamp(level, 0, 1) > 0)
}

// Touches returns the last touch position and clears it, so that the next call
// returns the empty sample (0, 0) unless there was a new touch in between.
// Only the most recent touch is kept.
func (b *Board) Touches() TouchSample {
	return b.touches.take()
}

// DoubleTap reports whether sample is within margin pixels of the previous tap
// on both axes. It must be called once per sample returned by Touches.
func (b *Board) DoubleTap(sample TouchSample, margin int) bool {
	return b.taps.Check(sample, margin)
}

// ShowStatus clears the display and writes msg in the middle of it.
func (b *Board) ShowStatus(msg string) error {
	b.lock.Lock()
	closed := b.shutdown
	b.lock.Unlock()
	if closed {
		return wrapErr(ErrUnavailable, SubsystemDisplay, "show status", nil)
	}
	return b.showStatus(msg)
}

func (b *Board) showStatus(msg string) error {
	width, height := b.display.Size()
	if err := b.display.FillRectangle(0, 0, width, height, statusBackground); err != nil {
		return wrapErr(ErrTransientIO, SubsystemDisplay, "clear", err)
	}
	_, lineWidth := tinyfont.LineWidth(statusFont, msg)
	x := (width - int16(lineWidth)) / 2
	if x < 0 {
		x = 0
	}
	tinyfont.WriteLine(b.display, statusFont, x, height/2, msg, statusForeground)
	if err := b.display.Display(); err != nil {
		return wrapErr(ErrTransientIO, SubsystemDisplay, "update", err)
	}
	return nil
}

// Shutdown shows a notice on the display, waits a moment so it can be read,
// and then releases every peripheral: touch, SD card (unmounted if mounted),
// speaker, RGB LED (forced off and released), display and finally the
// backlight.
//
// Every step runs even if an earlier step failed; the returned error joins
// all failures. Calling Shutdown again does nothing.
func (b *Board) Shutdown() error {
	b.lock.Lock()
	if b.shutdown {
		b.lock.Unlock()
		return nil
	}
	b.shutdown = true
	b.lock.Unlock()

	b.logger.Info("shutting down")
	var errs []error
	if err := b.showStatus("Shutting down..."); err != nil {
		b.logger.Warn("could not show shutdown notice", "err", err)
		errs = append(errs, err)
	}
	b.sleep(b.dwell)
	errs = append(errs, b.release()...)
	b.logger.Info("goodbye")
	return errors.Join(errs...)
}

// Release everything that was configured, in teardown order. This is also
// used to undo a partial construction.
func (b *Board) release() []error {
	var errs []error
	step := func(sub Subsystem, f func() error) {
		if err := f(); err != nil {
			b.logger.Warn("shutdown step failed", "subsystem", sub, "err", err)
			var e *Error
			if !errors.As(err, &e) {
				err = wrapErr(ErrTransientIO, sub, "release", err)
			}
			errs = append(errs, err)
		}
	}
	if b.touch != nil {
		step(SubsystemTouch, b.touch.Release)
	}
	if b.storage != nil {
		step(SubsystemStorage, b.storage.Unmount)
	}
	if b.speaker != nil {
		step(SubsystemSpeaker, b.speaker.release)
	}
	if b.rgb != nil {
		step(SubsystemRGB, b.rgb.release)
	}
	if b.display != nil {
		step(SubsystemDisplay, b.display.Release)
	}
	if b.backlight != nil {
		b.backlight.Set(false)
	}
	for _, sub := range subsystems {
		b.registry.ReleaseAll(sub)
	}
	return errs
}
