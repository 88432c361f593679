package board

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestErrorIs(t *testing.T) {
	c := qt.New(t)
	err := wrapErr(ErrTransientIO, SubsystemStorage, "mount", errFake)
	c.Assert(errors.Is(err, ErrTransientIO), qt.IsTrue)
	c.Assert(errors.Is(err, ErrUnavailable), qt.IsFalse)
	c.Assert(errors.Is(err, errFake), qt.IsTrue)
	c.Assert(err.Error(), qt.Equals, "storage: transient_io (mount): fake failure")

	wrapped := fmt.Errorf("setup: %w", err)
	c.Assert(CodeOf(wrapped), qt.Equals, ErrTransientIO)
}

func TestCodeOf(t *testing.T) {
	c := qt.New(t)
	c.Assert(CodeOf(nil), qt.Equals, Code(""))
	c.Assert(CodeOf(ErrBusInUse), qt.Equals, ErrBusInUse)
	c.Assert(CodeOf(errFake), qt.Equals, ErrHardwareInit)

	// The outer code wins, but errors.Is still finds the inner one.
	err := wrapErr(ErrHardwareInit, SubsystemTouch, "claim resources", wrapErr(ErrBusInUse, SubsystemTouch, "claim hspi", nil))
	c.Assert(CodeOf(err), qt.Equals, ErrHardwareInit)
	c.Assert(errors.Is(err, ErrBusInUse), qt.IsTrue)
}
