//go:build !baremetal

// Package simulator provides board.Hardware bindings that run on a desktop
// OS, showing the display, backlight and RGB LED in a window. This avoids
// potentially long edit-flash-test cycles.
//
// The window is run in a separate process by starting the current process
// again and communicating over pipes (stdin/stdout in the window process).
// Mouse clicks on the display act as touches, the space bar acts as the boot
// button.
package simulator

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/aykevl/tinygl/pixel"
	"github.com/cheapyellow/board"
	"github.com/cheapyellow/board/internal/simproto"
)

// Settings for the simulator. These must be modified before calling New.
var Settings = struct {
	WindowTitle string

	// Time it takes to send a single pixel to the display, to simulate a slow
	// SPI bus. Zero draws immediately.
	DrawSpeed time.Duration

	// Directory that acts as the SD card. An empty string means no card is
	// inserted.
	SDCardDir string

	// Board revision to simulate.
	Revision board.Revision
}{
	WindowTitle: "Cheap Yellow Display",
	DrawSpeed:   time.Second / 40e6 * 16, // 40MHz SPI, 16 bits per pixel
	Revision:    board.Rev2432S028R,
}

// New returns simulated board peripherals.
func New() board.Hardware {
	return &hardware{rev: Settings.Revision}
}

type hardware struct {
	rev board.Revision
}

func (h *hardware) Revision() board.Revision {
	return h.rev
}

func (h *hardware) ConfigureDisplay() (board.Displayer, error) {
	startWindow()
	d := &display{
		width:  h.rev.Width,
		height: h.rev.Height,
		buf:    make([]pixel.RGB888, int(h.rev.Width)*int(h.rev.Height)),
	}
	windowSendCommand(simproto.Format(simproto.CmdDisplay, int(d.width), int(d.height)), nil)
	return d, nil
}

func (h *hardware) ConfigureBacklight() (board.OutputPin, error) {
	startWindow()
	return backlight{}, nil
}

func (h *hardware) ConfigureTouch(onTouch func(x, y int)) (board.TouchTransport, error) {
	startWindow()
	events.lock.Lock()
	events.onTouch = onTouch
	events.orient = h.rev.Orientation()
	events.lock.Unlock()
	return touchRelease{}, nil
}

func (h *hardware) ConfigureButton() (board.InputPin, error) {
	return bootButton{}, nil
}

func (h *hardware) ConfigureLightSensor() (board.ADC, error) {
	return lightSensor{}, nil
}

func (h *hardware) ConfigureLEDPins() ([3]board.OutputPin, error) {
	startWindow()
	var pins [3]board.OutputPin
	for i := range pins {
		pins[i] = ledPin{channel: i}
	}
	sendLED()
	return pins, nil
}

func (h *hardware) ConfigureLEDPWM(frequency uint32) ([3]board.PWM, error) {
	startWindow()
	var pwms [3]board.PWM
	for i := range pwms {
		pwms[i] = &ledPWM{channel: i}
	}
	sendLED()
	return pwms, nil
}

func (h *hardware) ConfigureSpeaker() (board.PWM, error) {
	startWindow()
	return &speaker{}, nil
}

func (h *hardware) ConfigureStorage() (board.CardProber, error) {
	return cardProber{dir: Settings.SDCardDir}, nil
}

// Simulated display with a local framebuffer. Display sends it to the window.
type display struct {
	width, height int16
	buf           []pixel.RGB888
	released      bool
}

var errOutOfBounds = errors.New("simulator: drawing out of bounds")

func (d *display) Size() (width, height int16) {
	return d.width, d.height
}

func (d *display) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return
	}
	d.buf[int(y)*int(d.width)+int(x)] = pixel.RGB888{R: c.R, G: c.G, B: c.B}
}

func (d *display) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if x < 0 || y < 0 || width <= 0 || height <= 0 ||
		x+width > d.width || y+height > d.height {
		return errOutOfBounds
	}
	for py := y; py < y+height; py++ {
		for px := x; px < x+width; px++ {
			d.SetPixel(px, py, c)
		}
	}
	return nil
}

func (d *display) Display() error {
	if d.released {
		return errors.New("simulator: display released")
	}
	drawStart := time.Now()
	line := make([]byte, int(d.width)*3)
	for y := 0; y < int(d.height); y++ {
		// Delay drawing a bit, to simulate a slow SPI bus.
		if Settings.DrawSpeed != 0 {
			expected := drawStart.Add(Settings.DrawSpeed * time.Duration(y*int(d.width)))
			if delay := time.Until(expected); delay > 0 {
				time.Sleep(delay)
			}
		}
		for x, c := range d.buf[y*int(d.width) : (y+1)*int(d.width)] {
			line[x*3+0] = c.R
			line[x*3+1] = c.G
			line[x*3+2] = c.B
		}
		windowSendCommand(simproto.Format(simproto.CmdDraw, 0, y, int(d.width)), line)
	}
	return nil
}

func (d *display) Release() error {
	d.released = true
	windowSendCommand(simproto.Format(simproto.CmdSleep, 1), nil)
	return nil
}

type backlight struct{}

func (backlight) Set(high bool) {
	level := 0
	if high {
		level = 1
	}
	windowSendCommand(simproto.Format(simproto.CmdBrightness, level, 1), nil)
}

type touchRelease struct{}

func (touchRelease) Release() error {
	events.lock.Lock()
	events.onTouch = nil
	events.lock.Unlock()
	return nil
}

type bootButton struct{}

// Get returns the line level: low while the button is pressed.
func (bootButton) Get() bool {
	events.lock.Lock()
	defer events.lock.Unlock()
	return !events.buttonDown
}

type lightSensor struct{}

func (lightSensor) Get() uint16 {
	// Pretend it's a moderately lit room, with some ADC noise (programs
	// should be able to deal with that).
	return 20000 + uint16(rand.Intn(1024))
}

// State of the simulated RGB LED: either three line levels or three duty
// cycles, both active low.
var led struct {
	lock  sync.Mutex
	lines [3]bool
	duty  [3]uint16
	pwm   bool
}

func init() {
	led.lines = [3]bool{true, true, true}
	led.duty = [3]uint16{board.MaxDuty, board.MaxDuty, board.MaxDuty}
}

type ledPin struct{ channel int }

func (p ledPin) Set(high bool) {
	led.lock.Lock()
	led.lines[p.channel] = high
	led.lock.Unlock()
	sendLED()
}

type ledPWM struct{ channel int }

func (p *ledPWM) SetFrequency(hz uint32) error { return nil }

func (p *ledPWM) SetDuty(duty uint16) error {
	led.lock.Lock()
	led.pwm = true
	led.duty[p.channel] = duty
	led.lock.Unlock()
	sendLED()
	return nil
}

func (p *ledPWM) Release() error { return nil }

// Send the current LED color to the window.
func sendLED() {
	led.lock.Lock()
	var c pixel.RGB888
	channels := [3]*uint8{&c.R, &c.G, &c.B}
	for i, ch := range channels {
		if led.pwm {
			*ch = uint8(board.Remap(int(led.duty[i]), 0, board.MaxDuty, 255, 0))
		} else if !led.lines[i] {
			*ch = 255
		}
	}
	led.lock.Unlock()
	windowSendCommand(simproto.Format(simproto.CmdRGB, int(c.R), int(c.G), int(c.B)), nil)
}

type speaker struct {
	frequency uint32
}

func (s *speaker) SetFrequency(hz uint32) error {
	s.frequency = hz
	return nil
}

func (s *speaker) SetDuty(duty uint16) error {
	windowSendCommand(simproto.Format(simproto.CmdTone, int(s.frequency), int(duty)), nil)
	return nil
}

func (s *speaker) Release() error {
	return s.SetDuty(0)
}

// A directory standing in for the SD card.
type cardProber struct {
	dir string
}

var errNoCard = errors.New("simulator: no SD card inserted")

func (p cardProber) Probe() (board.Card, error) {
	if p.dir == "" {
		return nil, errNoCard
	}
	info, err := os.Stat(p.dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("simulator: %s is not a directory", p.dir)
	}
	return &card{dir: p.dir}, nil
}

type card struct {
	dir     string
	mounted bool
}

func (c *card) Mount(path string) error {
	if _, err := os.Stat(c.dir); err != nil {
		return err
	}
	c.mounted = true
	return nil
}

func (c *card) Unmount(path string) error {
	if !c.mounted {
		return errors.New("simulator: card not mounted")
	}
	c.mounted = false
	return nil
}

// Input state received from the window process.
var events struct {
	lock       sync.Mutex
	onTouch    func(x, y int)
	orient     board.Orientation
	buttonDown bool
	touching   bool
}

var (
	windowStart  sync.Once
	windowLock   sync.Mutex
	windowStdin  io.WriteCloser
	windowStdout io.ReadCloser
)

// Ensure the window is running in a separate process, starting it if necessary.
func startWindow() {
	windowStart.Do(func() {
		windowRunning := make(chan struct{})
		// Start the separate process that manages the window.
		go func() {
			cmd := exec.Command(os.Args[0], runWindowCommand)
			cmd.Stderr = os.Stderr
			windowStdin, _ = cmd.StdinPipe()
			windowStdout, _ = cmd.StdoutPipe()
			err := cmd.Start()
			if err != nil {
				fmt.Fprintln(os.Stdout, "could not start window process:", err)
				os.Exit(1)
			}
			close(windowRunning)
			err = cmd.Wait()
			if err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					os.Exit(exitErr.ExitCode())
				}
				os.Exit(1)
			}
			// The window was closed, so exit.
			os.Exit(0)
		}()
		<-windowRunning

		// Listen for events (keyboard/touch).
		go windowListenEvents()

		windowSendCommand(simproto.FormatTitle(Settings.WindowTitle), nil)
	})
}

// Send a command to the window process. The data part is optional binary data
// whose size follows from the command.
func windowSendCommand(command string, data []byte) {
	windowLock.Lock()
	defer windowLock.Unlock()

	windowStdin.Write([]byte(command))
	windowStdin.Write(data)
}

// Goroutine that listens for window events like button and touch (keyboard and
// mouse).
func windowListenEvents() {
	r := bufio.NewReader(windowStdout)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(os.Stderr, "failed to read I/O events from window process:", err)
			}
			return
		}
		msg, err := simproto.Parse(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad event from window process:", err)
			continue
		}
		handleEvent(msg)
	}
}

func handleEvent(msg simproto.Message) {
	events.lock.Lock()
	var onTouch func(x, y int)
	orient := events.orient
	switch msg.Name {
	case simproto.EvKeyPress:
		events.buttonDown = true
	case simproto.EvKeyRelease:
		events.buttonDown = false
	case simproto.EvMouseDown:
		events.touching = true
		onTouch = events.onTouch
	case simproto.EvMouseMove:
		if events.touching {
			onTouch = events.onTouch
		}
	case simproto.EvMouseUp:
		events.touching = false
	}
	events.lock.Unlock()

	// The touch controller reports in panel coordinates, which are mirrored
	// relative to the display. Undo the mirror the board will apply, so that
	// touches land where the mouse was clicked.
	if onTouch != nil {
		x, y := orient.Apply(msg.Args[0], msg.Args[1])
		onTouch(x, y)
	}
}
