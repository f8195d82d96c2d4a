package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const logPermission = 0o664

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type logBuild struct {
	writer io.Writer
	path   string
}

func newLogBuild() *logBuild {
	return &logBuild{}
}

func (b *logBuild) FromPath(path string) *logBuild {
	b.path = path
	return b
}

func (b *logBuild) FromWriter(w io.Writer) *logBuild {
	b.writer = w
	return b
}

// Make opens the log destination. With neither a path nor a writer the
// logger discards everything: the terminal belongs to the editor.
func (b *logBuild) Make() (zerolog.Logger, io.Closer, error) {
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logPermission)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		return zerolog.New(zerolog.SyncWriter(f)).With().Timestamp().Logger(), f, nil
	}
	if b.writer != nil {
		return zerolog.New(b.writer).With().Timestamp().Logger(), nopCloser{}, nil
	}
	return zerolog.Nop(), nopCloser{}, nil
}
