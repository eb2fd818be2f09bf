package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Slot is the single named location in durable storage that holds the
// serialized task collection. Writes replace the previous value entirely.
type Slot interface {
	Name() string
	// Read returns (nil, nil) when nothing has been stored yet.
	Read() ([]byte, error)
	Write(data []byte) error
}

// Keeper is implemented by slots that can set a payload aside when it could
// not be loaded in full, before the next write replaces it.
type Keeper interface {
	Keep(data []byte) (string, error)
}

// FileSlot stores the collection as <dir>/<name>.json.
type FileSlot struct {
	dir  string
	name string
}

// compile-time check
var (
	_ Slot   = (*FileSlot)(nil)
	_ Keeper = (*FileSlot)(nil)
)

func NewFileSlot(dir, name string) *FileSlot {
	return &FileSlot{dir: dir, name: name}
}

func (s *FileSlot) Name() string {
	return s.name
}

func (s *FileSlot) Path() string {
	return filepath.Join(s.dir, s.name+".json")
}

func (s *FileSlot) Read() ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading slot %s: %w", s.name, err)
	}
	return data, nil
}

// Write replaces the slot atomically via a temp file in the same directory.
func (s *FileSlot) Write(data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+s.name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing slot %s: %w", s.name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing slot %s: %w", s.name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replacing slot %s: %w", s.name, err)
	}
	return nil
}

// Keep copies data to <dir>/<name>.json.corrupt, replacing an older copy.
func (s *FileSlot) Keep(data []byte) (string, error) {
	path := s.Path() + ".corrupt"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("keeping slot %s: %w", s.name, err)
	}
	return path, nil
}

// MemorySlot keeps the serialized collection in memory.
type MemorySlot struct {
	name   string
	data   []byte
	writes int
	kept   []byte
	// Err, when set, fails every Write.
	Err error
}

var (
	_ Slot   = (*MemorySlot)(nil)
	_ Keeper = (*MemorySlot)(nil)
)

func NewMemorySlot(name string, data []byte) *MemorySlot {
	return &MemorySlot{name: name, data: data}
}

func (s *MemorySlot) Name() string { return s.name }

func (s *MemorySlot) Read() ([]byte, error) {
	return s.data, nil
}

func (s *MemorySlot) Write(data []byte) error {
	if s.Err != nil {
		return s.Err
	}
	s.data = append([]byte(nil), data...)
	s.writes++
	return nil
}

// Writes counts successful writes.
func (s *MemorySlot) Writes() int { return s.writes }

func (s *MemorySlot) Keep(data []byte) (string, error) {
	s.kept = append([]byte(nil), data...)
	return s.name + ".corrupt", nil
}

// Kept returns the last payload passed to Keep.
func (s *MemorySlot) Kept() []byte { return s.kept }
