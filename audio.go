package board

import (
	"sync"
	"time"
)

// Default speaker gain, the duty cycle used when PlayTone is called with a
// gain of 0.
const DefaultSpeakerGain = 512

// Speaker plays tones on the piezo speaker. There is a single PWM channel, so
// only one tone can play at a time.
type Speaker struct {
	lock     sync.Mutex
	pwm      PWM
	gain     uint16
	sleep    func(time.Duration)
	released bool
}

func newSpeaker(pwm PWM, gain int, sleep func(time.Duration)) (*Speaker, error) {
	s := &Speaker{
		pwm:   pwm,
		gain:  uint16(Clamp(gain, 0, MaxDuty)),
		sleep: sleep,
	}
	// Start silent.
	if err := pwm.SetFrequency(440); err != nil {
		return nil, err
	}
	if err := pwm.SetDuty(0); err != nil {
		return nil, err
	}
	return s, nil
}

// Gain returns the default gain configured for this speaker.
func (s *Speaker) Gain() int {
	return int(s.gain)
}

// PlayTone plays a square wave of the given frequency for the given duration,
// blocking until the tone has finished. A gain of 0 uses the configured
// default gain; other values are clamped to 1..MaxDuty. Use Silence to stop
// the speaker.
func (s *Speaker) PlayTone(frequency uint32, duration time.Duration, gain int) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.released {
		return wrapErr(ErrUnavailable, SubsystemSpeaker, "play", nil)
	}

	duty := s.gain
	if gain != 0 {
		duty = uint16(Clamp(gain, 1, MaxDuty))
	}
	if err := s.pwm.SetFrequency(frequency); err != nil {
		return wrapErr(ErrTransientIO, SubsystemSpeaker, "set frequency", err)
	}
	if err := s.pwm.SetDuty(duty); err != nil {
		return wrapErr(ErrTransientIO, SubsystemSpeaker, "set duty", err)
	}
	s.sleep(duration)
	if err := s.pwm.SetDuty(0); err != nil {
		return wrapErr(ErrTransientIO, SubsystemSpeaker, "silence", err)
	}
	return nil
}

// Silence stops any sound output.
func (s *Speaker) Silence() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.released {
		return nil
	}
	return s.pwm.SetDuty(0)
}

// Silence the speaker and release the PWM channel. The speaker cannot be used
// afterwards.
func (s *Speaker) release() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.released {
		return nil
	}
	s.released = true
	dutyErr := s.pwm.SetDuty(0)
	if err := s.pwm.Release(); err != nil {
		return err
	}
	return dutyErr
}
