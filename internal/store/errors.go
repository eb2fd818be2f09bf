package store

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText rejects add and edit requests whose text is blank.
	ErrEmptyText = errors.New("task text is required")
	// ErrNotFound reports an operation on an unknown task id. The store is
	// left untouched.
	ErrNotFound = errors.New("task not found")
)

func notFound(id int64) error {
	return fmt.Errorf("task %d: %w", id, ErrNotFound)
}
