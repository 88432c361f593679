package board

import (
	"log/slog"
	"sync"
)

// DefaultMountPath is where the SD card gets mounted.
const DefaultMountPath = "/sd"

// Storage manages the SD card. The card is probed lazily, on the first call
// to Mount.
type Storage struct {
	lock    sync.Mutex
	prober  CardProber
	card    Card
	path    string
	logger  *slog.Logger
	ready   bool
	mounted bool
}

func newStorage(prober CardProber, path string, logger *slog.Logger) *Storage {
	return &Storage{
		prober: prober,
		path:   path,
		logger: logger.With("subsystem", SubsystemStorage),
	}
}

// Ready returns whether the card was successfully probed.
func (s *Storage) Ready() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ready
}

// Mounted returns whether the card is currently mounted.
func (s *Storage) Mounted() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.mounted
}

// Path returns the mount point.
func (s *Storage) Path() string {
	return s.path
}

// Mount the SD card, probing it first if that hasn't been done yet. It
// returns ErrUnavailable when there is no usable card and ErrTransientIO when
// the filesystem could not be mounted. Mounting an already mounted card does
// nothing.
func (s *Storage) Mount() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.mounted {
		return nil
	}
	if !s.ready {
		card, err := s.prober.Probe()
		if err != nil {
			s.logger.Warn("failed to set up SD card", "err", err)
			return wrapErr(ErrUnavailable, SubsystemStorage, "probe", err)
		}
		s.card = card
		s.ready = true
	}
	if err := s.card.Mount(s.path); err != nil {
		s.logger.Warn("failed to mount SD card", "path", s.path, "err", err)
		return wrapErr(ErrTransientIO, SubsystemStorage, "mount", err)
	}
	s.mounted = true
	s.logger.Info("SD card mounted, do not remove", "path", s.path)
	return nil
}

// Unmount the SD card. It does nothing if the card isn't mounted. When the
// unmount fails, the card is still considered mounted.
func (s *Storage) Unmount() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.mounted {
		return nil
	}
	if err := s.card.Unmount(s.path); err != nil {
		s.logger.Warn("failed to unmount SD card", "path", s.path, "err", err)
		return wrapErr(ErrTransientIO, SubsystemStorage, "unmount", err)
	}
	s.mounted = false
	s.logger.Info("SD card unmounted, safe to remove", "path", s.path)
	return nil
}
