package bench

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Silencer suppresses console output until the returned restore function
// is called. Restore is safe to call more than once; only the first call
// has an effect.
type Silencer interface {
	Silence() (restore func() error, err error)
}

// NopSilencer leaves the output untouched.
type NopSilencer struct{}

func (NopSilencer) Silence() (func() error, error) {
	return func() error { return nil }, nil
}

// Silencers suppresses several streams at once and restores them in
// reverse order.
type Silencers []Silencer

func (ss Silencers) Silence() (func() error, error) {
	restores := make([]func() error, 0, len(ss))
	undo := func() error {
		var first error
		for k := len(restores) - 1; k >= 0; k-- {
			if err := restores[k](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	for _, s := range ss {
		restore, err := s.Silence()
		if err != nil {
			_ = undo()
			return nil, err
		}
		restores = append(restores, restore)
	}

	var (
		once       sync.Once
		restoreErr error
	)
	return func() error {
		once.Do(func() { restoreErr = undo() })
		return restoreErr
	}, nil
}

// FileSilencer redirects the file descriptor of File to the null device.
// Working on the descriptor also silences output written by C libraries
// such as Gurobi.
type FileSilencer struct {
	File *os.File
}

// NewStdoutSilencer silences the process standard output.
func NewStdoutSilencer() *FileSilencer {
	return &FileSilencer{File: os.Stdout}
}

// NewStderrSilencer silences the process standard error, where the
// solver engines log.
func NewStderrSilencer() *FileSilencer {
	return &FileSilencer{File: os.Stderr}
}

func (s *FileSilencer) Silence() (func() error, error) {
	_ = s.File.Sync()
	fd := int(s.File.Fd())
	saved, err := dup(fd)
	if err != nil {
		return nil, errors.Wrap(err, "saving output descriptor")
	}
	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		closeFd(saved)
		return nil, errors.Wrap(err, "opening null device")
	}
	defer devnull.Close()
	if err = dupTo(int(devnull.Fd()), fd); err != nil {
		closeFd(saved)
		return nil, errors.Wrap(err, "redirecting output")
	}

	var (
		once       sync.Once
		restoreErr error
	)
	return func() error {
		once.Do(func() {
			_ = s.File.Sync()
			if err := dupTo(saved, fd); err != nil {
				restoreErr = errors.Wrap(err, "restoring output descriptor")
			}
			closeFd(saved)
		})
		return restoreErr
	}, nil
}
