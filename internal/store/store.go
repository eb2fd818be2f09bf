package store

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/rogersnm/todo/internal/id"
	"github.com/rogersnm/todo/internal/model"
	"github.com/rogersnm/todo/internal/sanitize"
)

// TaskStore owns the task collection together with the filter and edit
// session. Callers never touch the collection directly; every mutation goes
// through a method and is persisted before it becomes visible.
//
// A TaskStore is not safe for concurrent use. Presentation layers drive it
// from a single event loop.
type TaskStore struct {
	slot Slot
	ids  *id.Generator
	now  func() time.Time
	log  *slog.Logger

	tasks   []model.Task // newest first
	filter  model.Filter
	editing int64 // 0 when idle
}

// Confirmer asks the user to approve a destructive operation.
type Confirmer func() bool

type Option func(*TaskStore)

func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TaskStore) { s.log = l }
}

func WithFilter(f model.Filter) Option {
	return func(s *TaskStore) { s.filter = f }
}

// Open loads the collection from slot. A missing or malformed payload yields
// an empty collection. When the slot is a Keeper, a payload that did not load
// in full is copied aside first; failing to read the slot or to keep the copy
// is returned.
func Open(slot Slot, opts ...Option) (*TaskStore, error) {
	s := &TaskStore{
		slot:   slot,
		now:    time.Now,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		filter: model.FilterAll,
	}
	for _, o := range opts {
		o(s)
	}
	s.ids = id.NewGenerator(s.now)

	data, err := slot.Read()
	if err != nil {
		return nil, err
	}
	if data != nil {
		tasks, skipped, err := decodeTasks(data)
		if err != nil {
			s.log.Warn("ignoring corrupt task slot", "slot", slot.Name(), "error", err)
			tasks = nil
		}
		if skipped > 0 {
			s.log.Warn("skipped invalid task records", "slot", slot.Name(), "count", skipped)
		}
		if err != nil || skipped > 0 {
			if err := keep(slot, data, s.log); err != nil {
				return nil, err
			}
		}
		s.tasks = tasks
	}
	for _, t := range s.tasks {
		s.ids.Observe(t.ID)
	}
	s.log.Debug("task slot loaded", "slot", slot.Name(), "tasks", len(s.tasks))
	return s, nil
}

// keep sets aside a payload that did not load in full, so the next write
// does not lose what was dropped.
func keep(slot Slot, data []byte, log *slog.Logger) error {
	k, ok := slot.(Keeper)
	if !ok {
		return nil
	}
	where, err := k.Keep(data)
	if err != nil {
		return fmt.Errorf("preserving unreadable task data: %w", err)
	}
	log.Warn("kept a copy of the unreadable task data", "slot", slot.Name(), "copy", where)
	return nil
}

// Add prepends a new pending task.
func (s *TaskStore) Add(text string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}
	t := model.Task{
		ID:        s.ids.Next(),
		Text:      text,
		CreatedAt: s.timestamp(),
	}
	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	if err := s.commit(next); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Toggle flips the completion flag of the task.
func (s *TaskStore) Toggle(taskID int64) (model.Task, error) {
	i := s.index(taskID)
	if i < 0 {
		return model.Task{}, notFound(taskID)
	}
	next := s.clone()
	next[i].Completed = !next[i].Completed
	if err := s.commit(next); err != nil {
		return model.Task{}, err
	}
	return next[i], nil
}

// Delete removes the task. The collection changes immediately; any removal
// animation is the caller's business.
func (s *TaskStore) Delete(taskID int64) error {
	i := s.index(taskID)
	if i < 0 {
		return notFound(taskID)
	}
	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	if err := s.commit(next); err != nil {
		return err
	}
	if s.editing == taskID {
		s.editing = 0
	}
	return nil
}

// StartEdit opens an edit session on taskID. A session already open on
// another task is abandoned without saving. The id is not checked.
func (s *TaskStore) StartEdit(taskID int64) {
	s.editing = taskID
}

// Editing returns the task currently being edited.
func (s *TaskStore) Editing() (int64, bool) {
	return s.editing, s.editing != 0
}

// SaveEdit stores edited markup as the task's text. Blank text or an unknown
// task discards the edit like CancelEdit does; the task itself is never
// removed.
func (s *TaskStore) SaveEdit(taskID int64, raw string) (model.Task, error) {
	text := sanitize.PlainText(raw)
	i := s.index(taskID)
	if i < 0 {
		s.CancelEdit()
		return model.Task{}, notFound(taskID)
	}
	if text == "" {
		s.CancelEdit()
		return s.tasks[i], ErrEmptyText
	}
	next := s.clone()
	next[i].Text = text
	if err := s.commit(next); err != nil {
		return s.tasks[i], err
	}
	s.CancelEdit()
	return next[i], nil
}

func (s *TaskStore) CancelEdit() {
	s.editing = 0
}

func (s *TaskStore) SetFilter(f model.Filter) {
	s.filter = f
}

func (s *TaskStore) Filter() model.Filter {
	return s.filter
}

// ClearAll removes every task once confirm approves. An empty collection is
// left alone and confirm is not asked. A nil confirm counts as approval.
func (s *TaskStore) ClearAll(confirm Confirmer) (bool, error) {
	if len(s.tasks) == 0 {
		return false, nil
	}
	if confirm != nil && !confirm() {
		return false, nil
	}
	if err := s.commit([]model.Task{}); err != nil {
		return false, err
	}
	s.editing = 0
	return true, nil
}

// FilteredView yields the tasks matching the current filter, newest first.
// The sequence is a snapshot: it can be ranged over repeatedly and is not
// affected by later mutations.
func (s *TaskStore) FilteredView() iter.Seq[model.Task] {
	tasks, filter := s.tasks, s.filter
	return func(yield func(model.Task) bool) {
		for _, t := range tasks {
			if !filter.Match(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

func (s *TaskStore) Stats() model.Stats {
	return model.ComputeStats(s.tasks)
}

// Tasks returns a copy of the whole collection, newest first.
func (s *TaskStore) Tasks() []model.Task {
	return s.clone()
}

func (s *TaskStore) Get(taskID int64) (model.Task, error) {
	i := s.index(taskID)
	if i < 0 {
		return model.Task{}, notFound(taskID)
	}
	return s.tasks[i], nil
}

func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Flush writes the current collection to the slot.
func (s *TaskStore) Flush() error {
	data, err := encodeTasks(s.tasks)
	if err != nil {
		return err
	}
	if err := s.slot.Write(data); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

// Close flushes the collection one last time.
func (s *TaskStore) Close() error {
	return s.Flush()
}

// commit persists next and only then makes it the live collection, so a
// failed write leaves memory and storage in agreement.
func (s *TaskStore) commit(next []model.Task) error {
	data, err := encodeTasks(next)
	if err != nil {
		return err
	}
	if err := s.slot.Write(data); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	s.tasks = next
	s.log.Debug("tasks saved", "slot", s.slot.Name(), "tasks", len(next))
	return nil
}

func (s *TaskStore) index(taskID int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

func (s *TaskStore) clone() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// timestamp keeps millisecond precision so CreatedAt survives the JSON
// round trip unchanged.
func (s *TaskStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
