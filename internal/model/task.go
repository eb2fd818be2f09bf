package model

import (
	"fmt"
	"strings"
	"time"
)

// Task is a single to-do item. The JSON layout is the persisted slot format.
type Task struct {
	ID        int64     `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"-"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

func (t *Task) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("task id must be positive")
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("task text is required")
	}
	return nil
}

// Stats summarises a collection. Pending is always Total - Completed.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}

func ComputeStats(tasks []Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
