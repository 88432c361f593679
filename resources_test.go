package board

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestRegistryClaim(t *testing.T) {
	c := qt.New(t)
	r := NewRegistry()
	c.Assert(r.Claim(SubsystemDisplay, BusHSPI), qt.IsNil)
	c.Assert(r.Claim(SubsystemDisplay, BusHSPI), qt.IsNil) // already owned

	err := r.Claim(SubsystemStorage, BusHSPI)
	c.Assert(errors.Is(err, ErrBusInUse), qt.IsTrue)
	owner, ok := r.Owner(BusHSPI)
	c.Assert(ok, qt.IsTrue)
	c.Assert(owner, qt.Equals, SubsystemDisplay)

	c.Assert(r.Claim(SubsystemBacklight, GPIO(21)), qt.IsNil)
	err = r.Claim(SubsystemTouch, GPIO(21))
	c.Assert(errors.Is(err, ErrPinInUse), qt.IsTrue)

	c.Assert(errors.Is(r.Claim(SubsystemTouch, ""), ErrUnknownResource), qt.IsTrue)
}

func TestRegistryRelease(t *testing.T) {
	c := qt.New(t)
	r := NewRegistry()
	c.Assert(r.Claim(SubsystemDisplay, BusHSPI), qt.IsNil)

	// Only the owner can release.
	r.Release(SubsystemStorage, BusHSPI)
	c.Assert(r.Len(), qt.Equals, 1)
	r.Release(SubsystemDisplay, BusHSPI)
	c.Assert(r.Len(), qt.Equals, 0)
	c.Assert(r.Claim(SubsystemStorage, BusHSPI), qt.IsNil)
}

func TestRegistryClaimAll(t *testing.T) {
	c := qt.New(t)
	r := NewRegistry()
	c.Assert(r.Claim(SubsystemButton, GPIO(0)), qt.IsNil)

	// A failing claim leaves nothing behind.
	err := r.ClaimAll(SubsystemDisplay, []ResourceID{BusHSPI, GPIO(2), GPIO(0)})
	c.Assert(errors.Is(err, ErrPinInUse), qt.IsTrue)
	c.Assert(r.Len(), qt.Equals, 1)
	_, ok := r.Owner(BusHSPI)
	c.Assert(ok, qt.IsFalse)

	c.Assert(r.ClaimAll(SubsystemDisplay, []ResourceID{BusHSPI, GPIO(2)}), qt.IsNil)
	r.ReleaseAll(SubsystemDisplay)
	c.Assert(r.Len(), qt.Equals, 1)
}

func TestResourceIsBus(t *testing.T) {
	c := qt.New(t)
	c.Assert(BusTouchSPI.IsBus(), qt.IsTrue)
	c.Assert(BusI2C0.IsBus(), qt.IsTrue)
	c.Assert(GPIO(36).IsBus(), qt.IsFalse)
	c.Assert(GPIO(36), qt.Equals, ResourceID("gpio36"))
}
