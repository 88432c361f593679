package board

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Records the order in which fake peripherals are used.
type callLog struct {
	lock  sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) list() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]string(nil), l.calls...)
}

// index returns the position of the first call with this name, or -1.
func (l *callLog) index(call string) int {
	for i, c := range l.list() {
		if c == call {
			return i
		}
	}
	return -1
}

type fakeDisplay struct {
	log        *callLog
	pixels     int
	releaseErr error
	displayErr error
}

func (d *fakeDisplay) Size() (int16, int16) { return 320, 240 }

func (d *fakeDisplay) SetPixel(x, y int16, c color.RGBA) { d.pixels++ }

func (d *fakeDisplay) Display() error {
	d.log.add("display.update")
	return d.displayErr
}

func (d *fakeDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	d.log.add("display.fill")
	return nil
}

func (d *fakeDisplay) Release() error {
	d.log.add("display.release")
	return d.releaseErr
}

type fakePin struct {
	log   *callLog
	name  string
	level bool
}

func (p *fakePin) Set(high bool) {
	p.level = high
	p.log.add("%s.set %v", p.name, high)
}

func (p *fakePin) Get() bool { return p.level }

type fakeADC struct{ value uint16 }

func (a *fakeADC) Get() uint16 { return a.value }

type fakePWM struct {
	log       *callLog
	name      string
	frequency uint32
	duty      uint16
	released  bool
	dutyErr   error
}

func (p *fakePWM) SetFrequency(hz uint32) error {
	p.frequency = hz
	return nil
}

func (p *fakePWM) SetDuty(duty uint16) error {
	if p.dutyErr != nil {
		return p.dutyErr
	}
	p.duty = duty
	p.log.add("%s.duty %d", p.name, duty)
	return nil
}

func (p *fakePWM) Release() error {
	p.released = true
	p.log.add("%s.release", p.name)
	return nil
}

type fakeTouch struct {
	log     *callLog
	onTouch func(x, y int)
}

func (t *fakeTouch) Release() error {
	t.log.add("touch.release")
	return nil
}

type fakeCard struct {
	log        *callLog
	mountErr   error
	unmountErr error
}

func (c *fakeCard) Mount(path string) error {
	c.log.add("storage.mount %s", path)
	return c.mountErr
}

func (c *fakeCard) Unmount(path string) error {
	c.log.add("storage.unmount %s", path)
	return c.unmountErr
}

type fakeProber struct {
	card   *fakeCard
	err    error
	probes int
}

func (p *fakeProber) Probe() (Card, error) {
	p.probes++
	if p.err != nil {
		return nil, p.err
	}
	return p.card, nil
}

var errFake = errors.New("fake failure")

// Fake board peripherals. Every Configure* call is recorded, and can be made
// to fail.
type fakeHardware struct {
	log  *callLog
	rev  Revision
	fail map[string]error

	display   *fakeDisplay
	backlight *fakePin
	touch     *fakeTouch
	button    *fakePin
	adc       *fakeADC
	ledPins   [3]*fakePin
	ledPWMs   [3]*fakePWM
	speaker   *fakePWM
	prober    *fakeProber
}

func newFakeHardware() *fakeHardware {
	log := &callLog{}
	hw := &fakeHardware{
		log:       log,
		rev:       Rev2432S028R,
		fail:      map[string]error{},
		display:   &fakeDisplay{log: log},
		backlight: &fakePin{log: log, name: "backlight"},
		touch:     &fakeTouch{log: log},
		button:    &fakePin{log: log, name: "button", level: true},
		adc:       &fakeADC{},
		speaker:   &fakePWM{log: log, name: "speaker"},
	}
	for i, name := range []string{"red", "green", "blue"} {
		hw.ledPins[i] = &fakePin{log: log, name: name}
		hw.ledPWMs[i] = &fakePWM{log: log, name: name}
	}
	hw.prober = &fakeProber{card: &fakeCard{log: log}}
	return hw
}

func (h *fakeHardware) configure(name string) error {
	h.log.add("configure %s", name)
	return h.fail[name]
}

func (h *fakeHardware) Revision() Revision { return h.rev }

func (h *fakeHardware) ConfigureDisplay() (Displayer, error) {
	if err := h.configure("display"); err != nil {
		return nil, err
	}
	return h.display, nil
}

func (h *fakeHardware) ConfigureBacklight() (OutputPin, error) {
	if err := h.configure("backlight"); err != nil {
		return nil, err
	}
	return h.backlight, nil
}

func (h *fakeHardware) ConfigureTouch(onTouch func(x, y int)) (TouchTransport, error) {
	if err := h.configure("touch"); err != nil {
		return nil, err
	}
	h.touch.onTouch = onTouch
	return h.touch, nil
}

func (h *fakeHardware) ConfigureButton() (InputPin, error) {
	if err := h.configure("button"); err != nil {
		return nil, err
	}
	return h.button, nil
}

func (h *fakeHardware) ConfigureLightSensor() (ADC, error) {
	if err := h.configure("light"); err != nil {
		return nil, err
	}
	return h.adc, nil
}

func (h *fakeHardware) ConfigureLEDPins() ([3]OutputPin, error) {
	if err := h.configure("rgb"); err != nil {
		return [3]OutputPin{}, err
	}
	return [3]OutputPin{h.ledPins[0], h.ledPins[1], h.ledPins[2]}, nil
}

func (h *fakeHardware) ConfigureLEDPWM(frequency uint32) ([3]PWM, error) {
	if err := h.configure("rgb-pwm"); err != nil {
		return [3]PWM{}, err
	}
	for _, pwm := range h.ledPWMs {
		pwm.frequency = frequency
	}
	return [3]PWM{h.ledPWMs[0], h.ledPWMs[1], h.ledPWMs[2]}, nil
}

func (h *fakeHardware) ConfigureSpeaker() (PWM, error) {
	if err := h.configure("speaker"); err != nil {
		return nil, err
	}
	return h.speaker, nil
}

func (h *fakeHardware) ConfigureStorage() (CardProber, error) {
	if err := h.configure("storage"); err != nil {
		return nil, err
	}
	return h.prober, nil
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Construct a board on fake hardware that doesn't actually sleep.
func newTestBoard(hw *fakeHardware, cfg Config) (*Board, *[]time.Duration, error) {
	sleeps := new([]time.Duration)
	if cfg.Logger == nil {
		cfg.Logger = discardLogger
	}
	b, err := newBoard(hw, cfg, func(d time.Duration) {
		*sleeps = append(*sleeps, d)
	})
	return b, sleeps, err
}
