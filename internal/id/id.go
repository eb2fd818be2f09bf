package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Generator issues task ids shaped like millisecond creation timestamps.
// Ids are strictly increasing: two calls within the same millisecond get
// consecutive values instead of colliding.
type Generator struct {
	now  func() time.Time
	last int64
}

func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Observe records an id issued elsewhere (e.g. loaded from storage) so that
// Next never hands it out again.
func (g *Generator) Observe(id int64) {
	if id > g.last {
		g.last = id
	}
}

func (g *Generator) Next() int64 {
	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return n
}

// Parse reads a task id from user input.
func Parse(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid task id %q: must be positive", s)
	}
	return n, nil
}
