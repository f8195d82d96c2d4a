package main

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks a note whose top-level shape is not a variant mapping.
	ErrParse = errors.New("malformed note")
	// ErrNotFound marks a lookup of an element id that is not in the document.
	ErrNotFound = errors.New("element not found")
	// ErrInvalidPath marks an empty or malformed glyph path.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidVariant marks a record whose variant tag is not registered.
	ErrInvalidVariant = errors.New("invalid variant")
)

type notFoundError struct {
	id int
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("element not found: %d", e.id)
}

func (e notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func errNotFound(id int) error {
	return notFoundError{id: id}
}
