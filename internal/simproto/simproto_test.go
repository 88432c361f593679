package simproto

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		line    string
		name    string
		args    []int
		payload int
	}{
		{"mousedown 12 34\n", EvMouseDown, []int{12, 34}, 0},
		{"mouseup\n", EvMouseUp, []int{}, 0},
		{"keypress 1", EvKeyPress, []int{1}, 0},
		{"draw 0 10 320\n", CmdDraw, []int{0, 10, 320}, 960},
		{"rgb 255 0 128\r\n", CmdRGB, []int{255, 0, 128}, 0},
		{"tone 440 512\n", CmdTone, []int{440, 512}, 0},
	} {
		c := qt.New(t)
		msg, err := Parse(tc.line)
		c.Assert(err, qt.IsNil, qt.Commentf("line %q", tc.line))
		c.Check(msg.Name, qt.Equals, tc.name)
		c.Check(msg.Args, qt.DeepEquals, tc.args)
		c.Check(msg.PayloadSize(), qt.Equals, tc.payload)
	}
}

func TestParseTitle(t *testing.T) {
	c := qt.New(t)
	msg, err := Parse(FormatTitle("Cheap Yellow\nDisplay"))
	c.Assert(err, qt.IsNil)
	c.Assert(msg.Name, qt.Equals, CmdTitle)
	c.Assert(msg.Text, qt.Equals, "Cheap Yellow Display")
}

func TestParseErrors(t *testing.T) {
	for _, line := range []string{"", "  \n", "bogus 1 2", "mousedown 1", "rgb 1 2 x"} {
		c := qt.New(t)
		_, err := Parse(line)
		c.Check(err, qt.Not(qt.IsNil), qt.Commentf("line %q", line))
	}
}

func TestFormat(t *testing.T) {
	c := qt.New(t)
	c.Assert(Format(CmdDisplay, 320, 240), qt.Equals, "display 320 240\n")
	c.Assert(Format(EvMouseUp), qt.Equals, "mouseup\n")

	msg, err := Parse(Format(CmdBrightness, 1, 1))
	c.Assert(err, qt.IsNil)
	c.Assert(msg.Args, qt.DeepEquals, []int{1, 1})
}
