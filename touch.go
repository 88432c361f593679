package board

import "sync/atomic"

// Mirror selects which axis of the touch panel is mirrored relative to the
// display.
type Mirror uint8

const (
	MirrorDefault Mirror = iota // use the board revision's setting
	MirrorNone
	MirrorX
	MirrorY
	MirrorXY
)

// Orientation converts panel coordinates to display coordinates.
type Orientation struct {
	Width, Height int
	Mirror        Mirror
}

// Apply the mirror transform. It is its own inverse for all coordinates
// inside the panel.
func (o Orientation) Apply(x, y int) (int, int) {
	switch o.Mirror {
	case MirrorX:
		x = (o.Width - 1) - x
	case MirrorY:
		y = (o.Height - 1) - y
	case MirrorXY:
		x = (o.Width - 1) - x
		y = (o.Height - 1) - y
	}
	return x, y
}

// TouchSample is a single touch position in display coordinates. The zero
// value means "no touch".
type TouchSample struct {
	X, Y int
}

// Empty returns whether this is the "no touch" sample.
func (s TouchSample) Empty() bool {
	return s.X == 0 && s.Y == 0
}

// Single-slot store for the latest touch sample. The writer is the touch
// interrupt path, the reader is the polling caller. Both coordinates are
// packed into one word so that a read never mixes two samples.
type touchStore struct {
	v atomic.Uint64
}

func (s *touchStore) put(sample TouchSample) {
	s.v.Store(uint64(uint32(int32(sample.X)))<<32 | uint64(uint32(int32(sample.Y))))
}

// take returns the stored sample and resets the slot to "no touch" in the same
// atomic step.
func (s *touchStore) take() TouchSample {
	v := s.v.Swap(0)
	return TouchSample{
		X: int(int32(uint32(v >> 32))),
		Y: int(int32(uint32(v))),
	}
}

// Position used as "no previous tap".
var noTap = TouchSample{X: -1, Y: -1}

// TapDetector classifies consecutive touch samples as double taps.
//
// It is stateful: Check must be called exactly once per sample. The zero value
// is ready to use.
type TapDetector struct {
	last  TouchSample
	valid bool
}

// Check compares the sample against the previous tap. If both axes are
// within margin of it, this is a double tap: the state is reset and Check
// returns true. Otherwise the sample is remembered as the last tap and Check
// returns false. Empty samples are ignored.
func (d *TapDetector) Check(sample TouchSample, margin int) bool {
	if sample.Empty() {
		return false
	}
	if d.valid && absDiff(sample.X, d.last.X) <= margin && absDiff(sample.Y, d.last.Y) <= margin {
		d.Reset()
		return true
	}
	d.last = sample
	d.valid = true
	return false
}

// Reset forgets the last tap.
func (d *TapDetector) Reset() {
	d.last = noTap
	d.valid = false
}

// Last returns the previous tap, or (-1, -1) if there is none.
func (d *TapDetector) Last() TouchSample {
	if !d.valid {
		return noTap
	}
	return d.last
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
