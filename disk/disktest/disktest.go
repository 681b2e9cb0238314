// Package disktest provides an in-memory backend.Storage double for
// exercising disk and filesystem failure paths without touching the real
// filesystem, with fault injection so tests can force a read or write to
// fail after a given number of calls.
package disktest

import (
	"errors"
	"io/fs"
	"os"

	"github.com/simplefs/simplefs/backend"
)

// ErrInjected is returned once a call budget set by FailReadsAfter or
// FailWritesAfter is exhausted.
var ErrInjected = errors.New("disktest: injected failure")

// Storage is an in-memory backend.Storage backed by a byte slice, with
// optional fault injection on reads and/or writes.
type Storage struct {
	data []byte

	readsBeforeFail  int // -1 means never fail
	writesBeforeFail int // -1 means never fail
}

// New creates a Storage of the given size, all zero bytes.
func New(size int64) *Storage {
	return &Storage{
		data:             make([]byte, size),
		readsBeforeFail:  -1,
		writesBeforeFail: -1,
	}
}

// FailReadsAfter makes the n-th-plus-1 ReadAt call (and every call after)
// return ErrInjected. Pass a negative n to disable (the default).
func (s *Storage) FailReadsAfter(n int) { s.readsBeforeFail = n }

// FailWritesAfter is the write-side equivalent of FailReadsAfter.
func (s *Storage) FailWritesAfter(n int) { s.writesBeforeFail = n }

var _ backend.Storage = (*Storage)(nil)

func (s *Storage) Stat() (fs.FileInfo, error) {
	return nil, errors.New("disktest: Stat not supported")
}

func (s *Storage) Read(b []byte) (int, error) { return s.ReadAt(b, 0) }

func (s *Storage) Close() error { return nil }

func (s *Storage) ReadAt(p []byte, off int64) (int, error) {
	if s.readsBeforeFail == 0 {
		return 0, ErrInjected
	}
	if s.readsBeforeFail > 0 {
		s.readsBeforeFail--
	}
	if off < 0 || off >= int64(len(s.data)) {
		return 0, errors.New("disktest: offset out of range")
	}
	n := copy(p, s.data[off:])
	return n, nil
}

func (s *Storage) WriteAt(p []byte, off int64) (int, error) {
	if s.writesBeforeFail == 0 {
		return 0, ErrInjected
	}
	if s.writesBeforeFail > 0 {
		s.writesBeforeFail--
	}
	if off < 0 || off >= int64(len(s.data)) {
		return 0, errors.New("disktest: offset out of range")
	}
	n := copy(s.data[off:], p)
	return n, nil
}

func (s *Storage) Seek(offset int64, whence int) (int64, error) {
	return 0, backend.ErrNotSuitable
}

func (s *Storage) Sys() (*os.File, error) {
	return nil, backend.ErrNotSuitable
}

func (s *Storage) Writable() (backend.WritableFile, error) {
	return writable{s}, nil
}

type writable struct{ s *Storage }

func (w writable) Stat() (fs.FileInfo, error)                { return w.s.Stat() }
func (w writable) Read(b []byte) (int, error)                { return w.s.Read(b) }
func (w writable) Close() error                              { return w.s.Close() }
func (w writable) ReadAt(p []byte, off int64) (int, error)   { return w.s.ReadAt(p, off) }
func (w writable) WriteAt(p []byte, off int64) (int, error)  { return w.s.WriteAt(p, off) }

func (w writable) Seek(offset int64, whence int) (int64, error) {
	return w.s.Seek(offset, whence)
}
