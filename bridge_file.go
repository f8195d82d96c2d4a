package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const noteExt = ".sketch"

// fileStore keeps one JSON file per note.
type fileStore struct {
	dir string
}

func newFileStore(dir string) *fileStore {
	if dir == "" {
		dir = "."
	}
	return &fileStore{dir: dir}
}

func (s *fileStore) path(note string) string {
	return filepath.Join(s.dir, note+noteExt)
}

func (s *fileStore) read(_ context.Context, note string) (string, error) {
	b, err := os.ReadFile(s.path(note))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// write replaces the note atomically so a crash never leaves half a note.
func (s *fileStore) write(_ context.Context, note, text string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+note+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(note))
}

func (s *fileStore) list(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var notes []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, noteExt) {
			continue
		}
		notes = append(notes, strings.TrimSuffix(name, noteExt))
	}
	sort.Strings(notes)
	return notes, nil
}

func (s *fileStore) close() error { return nil }
