package history

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// ReadFile reads a persisted history file, one record per line. Blank lines
// are skipped. A file that doesn't exist yields fs.ErrNotExist so callers can
// start a fresh history.
func ReadFile(fsys afero.Fs, name string) ([]string, error) {
	fd, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	var lines []string
	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	return lines, nil
}

// WriteFile replaces the contents of name with lines, one per line.
func WriteFile(fsys afero.Fs, name string, lines []string) error {
	fd, err := fsys.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(fd)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}

	if err := w.Flush(); err != nil {
		fd.Close()
		return err
	}

	return fd.Close()
}

// LoadFile reads name into the store. It reports whether the file existed.
func (s *Store) LoadFile(fsys afero.Fs, name string) (bool, error) {
	lines, err := ReadFile(fsys, name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}

	s.Load(lines)
	return true, nil
}

// SaveFile writes the store's records to name.
func (s *Store) SaveFile(fsys afero.Fs, name string) error {
	return WriteFile(fsys, name, s.Save())
}
