// Package simproto implements the line protocol between a program using the
// simulator and the separate process that shows the simulator window.
//
// Every message is a single line of space separated fields. The first field
// is the message name, the rest are decimal integers, except for the title
// command which takes the rest of the line as text. Some commands are followed
// by a block of binary data whose size follows from the arguments.
package simproto

import (
	"errors"
	"strconv"
	"strings"
)

// Commands sent to the window process.
const (
	CmdTitle      = "title"              // title <text>
	CmdDisplay    = "display"            // display <width> <height>
	CmdDraw       = "draw"               // draw <x> <y> <width>, followed by width*3 bytes of RGB
	CmdBrightness = "display-brightness" // display-brightness <level> <max>
	CmdSleep      = "display-sleep"      // display-sleep <0|1>
	CmdRGB        = "rgb"                // rgb <r> <g> <b>, intensities 0..255
	CmdTone       = "tone"               // tone <frequency> <duty>, duty 0 is silent
)

// Events sent by the window process.
const (
	EvMouseDown  = "mousedown"  // mousedown <x> <y>
	EvMouseUp    = "mouseup"    // mouseup
	EvMouseMove  = "mousemove"  // mousemove <x> <y>
	EvKeyPress   = "keypress"   // keypress <key>
	EvKeyRelease = "keyrelease" // keyrelease <key>
)

var argCounts = map[string]int{
	CmdDisplay:    2,
	CmdDraw:       3,
	CmdBrightness: 2,
	CmdSleep:      1,
	CmdRGB:        3,
	CmdTone:       2,
	EvMouseDown:   2,
	EvMouseUp:     0,
	EvMouseMove:   2,
	EvKeyPress:    1,
	EvKeyRelease:  1,
}

var (
	errEmpty   = errors.New("simproto: empty message")
	errUnknown = errors.New("simproto: unknown message")
	errArgs    = errors.New("simproto: wrong number of arguments")
)

// Message is a single parsed line.
type Message struct {
	Name string
	Args []int
	Text string // only for CmdTitle
}

// Format returns the message as a line, including the trailing newline.
func Format(name string, args ...int) string {
	var b strings.Builder
	b.WriteString(name)
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(arg))
	}
	b.WriteByte('\n')
	return b.String()
}

// FormatTitle returns a title command line.
func FormatTitle(title string) string {
	return CmdTitle + " " + strings.ReplaceAll(title, "\n", " ") + "\n"
}

// Parse a single line. The trailing newline is optional.
func Parse(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Message{}, errEmpty
	}
	msg := Message{Name: fields[0]}
	if msg.Name == CmdTitle {
		msg.Text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), CmdTitle))
		return msg, nil
	}
	count, ok := argCounts[msg.Name]
	if !ok {
		return msg, errUnknown
	}
	if len(fields)-1 != count {
		return msg, errArgs
	}
	msg.Args = make([]int, count)
	for i, field := range fields[1:] {
		n, err := strconv.Atoi(field)
		if err != nil {
			return msg, err
		}
		msg.Args[i] = n
	}
	return msg, nil
}

// PayloadSize returns the number of bytes of binary data that follow the
// message.
func (m Message) PayloadSize() int {
	if m.Name == CmdDraw && len(m.Args) == 3 && m.Args[2] > 0 {
		return m.Args[2] * 3
	}
	return 0
}
