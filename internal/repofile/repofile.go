// Package repofile links a directory tree to a named task slot so that
// running todo inside a project works on that project's list.
package repofile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const FileName = ".todo-slot"

// Link ties Dir and everything below it to Slot.
type Link struct {
	Slot string
	Dir  string
}

func (l Link) Path() string {
	return filepath.Join(l.Dir, FileName)
}

// Remove deletes the link file. A link that is already gone is not an error.
func (l Link) Remove() error {
	if err := os.Remove(l.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Lookup returns the nearest link at or above dir.
func Lookup(dir string) (Link, bool, error) {
	for {
		l, ok, err := Load(dir)
		if err != nil || ok {
			return l, ok, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Link{}, false, nil
		}
		dir = parent
	}
}

// Load reads the link file in dir itself. Blank lines and lines starting
// with # are skipped; the first remaining line names the slot.
func Load(dir string) (Link, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Link{}, false, nil
	}
	if err != nil {
		return Link{}, false, err
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return Link{Slot: line, Dir: dir}, true, nil
	}
	return Link{}, false, sc.Err()
}

// Create links dir to slot, replacing any existing link there.
func Create(dir, slot string) (Link, error) {
	l := Link{Slot: slot, Dir: dir}
	if err := os.WriteFile(l.Path(), []byte(slot+"\n"), 0644); err != nil {
		return Link{}, fmt.Errorf("writing %s: %w", FileName, err)
	}
	return l, nil
}
