//go:build esp32

package board

// Peripherals shared by all ESP32-2432S0xx revisions.

import (
	"image/color"
	"machine"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers/ili9341"
	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"
)

type esp32Display struct {
	*ili9341.Device
}

func configureESP32Display() Displayer {
	machine.SPI2.Configure(machine.SPIConfig{
		Frequency: 40_000_000,
		SCK:       machine.GPIO14,
		SDO:       machine.GPIO13,
		SDI:       machine.GPIO12,
	})

	// The display reset line is tied to the EN (reset) line of the module.
	display := ili9341.NewSPI(machine.SPI2, machine.GPIO2, machine.GPIO15, machine.NoPin)
	display.Configure(ili9341.Config{
		Rotation: ili9341.Rotation90,
	})
	return esp32Display{display}
}

func (d esp32Display) Release() error {
	d.FillScreen(color.RGBA{A: 255})
	return d.Sleep(true)
}

func configureESP32Output(pin machine.Pin, initial bool) machine.Pin {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Set(initial)
	return pin
}

func configureESP32Button() InputPin {
	pin := machine.GPIO0
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return pin
}

func configureESP32LightSensor() ADC {
	machine.InitADC()
	adc := machine.ADC{Pin: machine.GPIO34}
	adc.Configure(machine.ADCConfig{})
	return adc
}

var esp32LEDPins = [3]machine.Pin{machine.GPIO4, machine.GPIO16, machine.GPIO17}

func configureESP32LEDPins() [3]OutputPin {
	var pins [3]OutputPin
	for i, pin := range esp32LEDPins {
		pins[i] = configureESP32Output(pin, true) // active low
	}
	return pins
}

func configureESP32LEDPWM(frequency uint32) [3]PWM {
	var pwms [3]PWM
	for i, pin := range esp32LEDPins {
		pwms[i] = newSoftPWM(pin, frequency, MaxDuty) // active low
	}
	return pwms
}

func configureESP32Speaker() PWM {
	return newSoftPWM(machine.GPIO26, 440, 0)
}

// Software PWM on a single pin, driven by a goroutine.
//
// TODO: use the LEDC peripheral once the machine package supports it on the
// ESP32.
type softPWM struct {
	pin    machine.Pin
	period atomic.Uint32 // nanoseconds
	duty   atomic.Uint32
	stop   chan struct{}
	done   chan struct{}
}

func newSoftPWM(pin machine.Pin, frequency uint32, duty uint16) *softPWM {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p := &softPWM{
		pin:  pin,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	p.SetFrequency(frequency)
	p.SetDuty(duty)
	go p.run()
	return p
}

func (p *softPWM) SetFrequency(hz uint32) error {
	if hz == 0 {
		hz = 1
	}
	p.period.Store(uint32(time.Second) / hz)
	return nil
}

func (p *softPWM) SetDuty(duty uint16) error {
	p.duty.Store(uint32(Clamp(duty, 0, MaxDuty)))
	return nil
}

func (p *softPWM) Release() error {
	close(p.stop)
	<-p.done
	p.pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	return nil
}

func (p *softPWM) run() {
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			return
		default:
		}
		period := time.Duration(p.period.Load())
		duty := p.duty.Load()
		switch duty {
		case 0:
			p.pin.Low()
			time.Sleep(period)
		case MaxDuty:
			p.pin.High()
			time.Sleep(period)
		default:
			high := period * time.Duration(duty) / MaxDuty
			p.pin.High()
			time.Sleep(high)
			p.pin.Low()
			time.Sleep(period - high)
		}
	}
}

// Hands touch interrupts over to a goroutine, which does the actual bus
// transfer. The interrupt handler itself only does a non-blocking send; edges
// arriving while a read is pending are merged into it.
type touchWorker struct {
	irq     machine.Pin
	read    func() (x, y int, ok bool)
	onTouch func(x, y int)
	pending chan struct{}
	stop    chan struct{}
}

func startTouchWorker(irq machine.Pin, read func() (x, y int, ok bool), onTouch func(x, y int)) (TouchTransport, error) {
	w := &touchWorker{
		irq:     irq,
		read:    read,
		onTouch: onTouch,
		pending: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	if err := irq.SetInterrupt(machine.PinFalling, w.interrupt); err != nil {
		return nil, err
	}
	go w.run()
	return w, nil
}

func (w *touchWorker) interrupt(machine.Pin) {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

func (w *touchWorker) run() {
	for {
		select {
		case <-w.stop:
			return
		case <-w.pending:
		}
		if x, y, ok := w.read(); ok {
			w.onTouch(x, y)
		}
	}
}

func (w *touchWorker) Release() error {
	err := w.irq.SetInterrupt(0, nil)
	close(w.stop)
	return err
}

// SD card on the VSPI bus, probed when first mounted.
type esp32CardProber struct{}

func (esp32CardProber) Probe() (Card, error) {
	sd := sdcard.New(machine.SPI3, machine.GPIO18, machine.GPIO23, machine.GPIO19, machine.GPIO5)
	if err := sd.Configure(); err != nil {
		return nil, err
	}
	fs := fatfs.New(&sd)
	fs.Configure(&fatfs.Config{SectorSize: 512})
	return &esp32Card{FATFS: fs}, nil
}

// A FAT filesystem on the SD card. The embedded filesystem can be used to
// open files once mounted.
type esp32Card struct {
	*fatfs.FATFS
}

// Mount the filesystem. FAT on tinyfs has no mount table, so the path is only
// a name: files are opened through the embedded FATFS.
func (c *esp32Card) Mount(_ string) error {
	return c.FATFS.Mount()
}

func (c *esp32Card) Unmount(_ string) error {
	return c.FATFS.Unmount()
}
