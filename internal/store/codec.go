package store

import (
	"encoding/json"
	"fmt"

	"github.com/rogersnm/todo/internal/model"
	"github.com/tidwall/jsonc"
)

func encodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeTasks parses a slot payload. Comments and trailing commas left by
// hand edits are tolerated. Records that fail validation or repeat an
// earlier id are returned in skipped rather than failing the whole payload.
func decodeTasks(data []byte) (tasks []model.Task, skipped int, err error) {
	var raw []model.Task
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, 0, fmt.Errorf("decoding tasks: %w", err)
	}
	seen := make(map[int64]bool, len(raw))
	tasks = make([]model.Task, 0, len(raw))
	for _, t := range raw {
		if err := t.Validate(); err != nil || seen[t.ID] {
			skipped++
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, skipped, nil
}
