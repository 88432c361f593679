//go:build !baremetal

package simulator

// The window process. It shows the display, the backlight state, the RGB LED
// and the current speaker tone, and reports mouse and keyboard input back to
// the parent process.

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"

	"github.com/cheapyellow/board"
	"github.com/cheapyellow/board/internal/simproto"
)

const runWindowCommand = "run-simulator-window"

func init() {
	if len(os.Args) >= 2 && os.Args[1] == runWindowCommand {
		// This is the window process.
		// Run the entire window in an init function, so that programs don't
		// need to do anything special to support the simulator.
		windowMain()
		os.Exit(0)
	}
}

var (
	displayImageLock  sync.Mutex
	displayImage      *image.RGBA
	displayBrightness = 0
	displaySleeping   = false

	ledColor = color.RGBA{A: 255}
)

// Scale factor from display pixels to window pixels.
const windowScale = 2

// The main function for the window process.
func windowMain() {
	// Create a raster image to use as a display buffer.
	displayImage = image.NewRGBA(image.Rect(0, 0, 320, 240))
	display := &displayWidget{}
	display.Generator = func(w, h int) image.Image {
		displayImageLock.Lock()
		defer displayImageLock.Unlock()
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		if displayBrightness <= 0 || displaySleeping {
			// The backlight is off, so indicate this by making the screen gray.
			draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 96, G: 96, B: 96, A: 255}), image.Point{}, draw.Src)
			return img
		}
		draw.NearestNeighbor.Scale(img, img.Bounds(), displayImage, displayImage.Bounds(), draw.Src, nil)
		return img
	}
	display.SetMinSize(fyne.NewSize(320*windowScale, 240*windowScale))

	// The RGB LED, drawn as a single square.
	ledWidget := canvas.NewRectangle(ledColor)
	ledWidget.SetMinSize(fyne.NewSize(24, 24))
	toneLabel := widget.NewLabel("")

	// Create a window.
	a := app.New()
	w := a.NewWindow("Simulator")
	w.SetPadded(false)
	w.SetFixedSize(true)
	w.SetContent(container.NewVBox(display, container.NewHBox(ledWidget, toneLabel)))

	// The space bar and enter key act as the boot button.
	if deskCanvas, ok := w.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(event *fyne.KeyEvent) {
			if isBootKey(event.Name) {
				fmt.Print(simproto.Format(simproto.EvKeyPress, int(board.KeyBoot)))
			}
		})
		deskCanvas.SetOnKeyUp(func(event *fyne.KeyEvent) {
			if isBootKey(event.Name) {
				fmt.Print(simproto.Format(simproto.EvKeyRelease, int(board.KeyBoot)))
			}
		})
	}

	// Listen for commands from the parent process (which includes display
	// data).
	go windowReceiveCommands(w, display, ledWidget, toneLabel)

	// Show the window.
	w.ShowAndRun()
}

func isBootKey(key fyne.KeyName) bool {
	return key == fyne.KeySpace || key == fyne.KeyReturn
}

// Goroutine that listens for commands from the parent process.
func windowReceiveCommands(w fyne.Window, display *displayWidget, ledWidget *canvas.Rectangle, toneLabel *widget.Label) {
	r := bufio.NewReader(os.Stdin)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			// The parent process exited.
			a := fyne.CurrentApp()
			if a != nil {
				a.Quit()
			}
			return
		}
		msg, err := simproto.Parse(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "simulator:", err)
			continue
		}
		switch msg.Name {
		case simproto.CmdTitle:
			w.SetTitle(msg.Text)
		case simproto.CmdDisplay:
			width, height := msg.Args[0], msg.Args[1]
			displayImageLock.Lock()
			displayImage = image.NewRGBA(image.Rect(0, 0, width, height))
			displayImageLock.Unlock()
			display.SetMinSize(fyne.NewSize(float32(width*windowScale), float32(height*windowScale)))
		case simproto.CmdBrightness:
			displayImageLock.Lock()
			displayBrightness = msg.Args[0]
			displayImageLock.Unlock()
			display.Refresh()
		case simproto.CmdSleep:
			displayImageLock.Lock()
			displaySleeping = msg.Args[0] != 0
			displayImageLock.Unlock()
			display.Refresh()
		case simproto.CmdDraw:
			// Read the image data (which is a single line).
			startX, startY, width := msg.Args[0], msg.Args[1], msg.Args[2]
			buf := make([]byte, msg.PayloadSize())
			io.ReadFull(r, buf)

			// Draw the image data to the image buffer.
			displayImageLock.Lock()
			for x := 0; x < width; x++ {
				displayImage.SetRGBA(startX+x, startY, color.RGBA{
					R: buf[x*3+0],
					G: buf[x*3+1],
					B: buf[x*3+2],
					A: 255,
				})
			}
			displayImageLock.Unlock()
			display.Refresh()
		case simproto.CmdRGB:
			ledWidget.FillColor = color.RGBA{
				R: gammaEncodeTable[msg.Args[0]&0xff],
				G: gammaEncodeTable[msg.Args[1]&0xff],
				B: gammaEncodeTable[msg.Args[2]&0xff],
				A: 255,
			}
			ledWidget.Refresh()
		case simproto.CmdTone:
			if msg.Args[1] == 0 {
				toneLabel.SetText("")
			} else {
				toneLabel.SetText(fmt.Sprintf("♪ %dHz", msg.Args[0]))
			}
		}
	}
}

var _ desktop.Mouseable = (*displayWidget)(nil)
var _ fyne.Draggable = (*displayWidget)(nil)

// Wrapper for canvas.Raster that sends mouse events to the parent process.
type displayWidget struct {
	canvas.Raster
}

func (r *displayWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(&r.Raster)
}

func (r *displayWidget) MouseDown(event *desktop.MouseEvent) {
	if event.Button == desktop.MouseButtonPrimary {
		x, y := displayPosition(event.Position)
		fmt.Print(simproto.Format(simproto.EvMouseDown, x, y))
	}
}

func (r *displayWidget) MouseUp(event *desktop.MouseEvent) {
	if event.Button == desktop.MouseButtonPrimary {
		fmt.Print(simproto.Format(simproto.EvMouseUp))
	}
}

func (r *displayWidget) Dragged(event *fyne.DragEvent) {
	x, y := displayPosition(event.PointEvent.Position)
	fmt.Print(simproto.Format(simproto.EvMouseMove, x, y))
}

func (r *displayWidget) DragEnd() {
	// handled in MouseUp
}

// Convert a window position to display pixel coordinates.
func displayPosition(pos fyne.Position) (x, y int) {
	displayImageLock.Lock()
	bounds := displayImage.Bounds()
	displayImageLock.Unlock()
	x = board.Clamp(int(pos.X)/windowScale, 0, bounds.Dx()-1)
	y = board.Clamp(int(pos.Y)/windowScale, 0, bounds.Dy()-1)
	return x, y
}

// Gamma brightness lookup table:
// https://victornpb.github.io/gamma-table-generator
// gamma = 0.45 steps = 256 range = 0-255
var gammaEncodeTable = [256]uint8{
	0, 21, 28, 34, 39, 43, 46, 50, 53, 56, 59, 61, 64, 66, 68, 70,
	72, 74, 76, 78, 80, 82, 84, 85, 87, 89, 90, 92, 93, 95, 96, 98,
	99, 101, 102, 103, 105, 106, 107, 109, 110, 111, 112, 114, 115, 116, 117, 118,
	119, 120, 122, 123, 124, 125, 126, 127, 128, 129, 130, 131, 132, 133, 134, 135,
	136, 137, 138, 139, 140, 141, 142, 143, 144, 144, 145, 146, 147, 148, 149, 150,
	151, 151, 152, 153, 154, 155, 156, 156, 157, 158, 159, 160, 160, 161, 162, 163,
	164, 164, 165, 166, 167, 167, 168, 169, 170, 170, 171, 172, 173, 173, 174, 175,
	175, 176, 177, 178, 178, 179, 180, 180, 181, 182, 182, 183, 184, 184, 185, 186,
	186, 187, 188, 188, 189, 190, 190, 191, 192, 192, 193, 194, 194, 195, 195, 196,
	197, 197, 198, 199, 199, 200, 200, 201, 202, 202, 203, 203, 204, 205, 205, 206,
	206, 207, 207, 208, 209, 209, 210, 210, 211, 212, 212, 213, 213, 214, 214, 215,
	215, 216, 217, 217, 218, 218, 219, 219, 220, 220, 221, 221, 222, 223, 223, 224,
	224, 225, 225, 226, 226, 227, 227, 228, 228, 229, 229, 230, 230, 231, 231, 232,
	232, 233, 233, 234, 234, 235, 235, 236, 236, 237, 237, 238, 238, 239, 239, 240,
	240, 241, 241, 242, 242, 243, 243, 244, 244, 245, 245, 246, 246, 247, 247, 248,
	248, 249, 249, 249, 250, 250, 251, 251, 252, 252, 253, 253, 254, 254, 255, 255,
}
