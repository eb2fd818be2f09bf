package store

import (
	"bytes"
	"errors"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/rogersnm/todo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*TaskStore, *MemorySlot) {
	t.Helper()
	slot := NewMemorySlot("todos", nil)
	s, err := Open(slot)
	require.NoError(t, err)
	return s, slot
}

func texts(seq iter.Seq[model.Task]) []string {
	var out []string
	for t := range seq {
		out = append(out, t.Text)
	}
	return out
}

// --- Add ---

func TestAdd_FirstTask(t *testing.T) {
	s, _ := newTestStore(t)

	task, err := s.Add("Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Text)
	assert.False(t, task.Completed)
	assert.NotZero(t, task.ID)
	assert.False(t, task.CreatedAt.IsZero())

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
	assert.Equal(t, model.Stats{Total: 1, Completed: 0, Pending: 1}, s.Stats())
}

func TestAdd_NewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add("A")
	require.NoError(t, err)
	_, err = s.Add("B")
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "A"}, texts(s.FilteredView()))
}

func TestAdd_ManyKeepsCountAndOrder(t *testing.T) {
	s, _ := newTestStore(t)
	var added []int64
	for i := 0; i < 50; i++ {
		task, err := s.Add("task")
		require.NoError(t, err)
		added = append(added, task.ID)
	}

	tasks := s.Tasks()
	require.Len(t, tasks, 50)
	slices.Reverse(added)
	for i, task := range tasks {
		assert.Equal(t, added[i], task.ID)
	}
}

func TestAdd_UniqueIDsWithinOneTick(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s, err := Open(NewMemorySlot("todos", nil), WithClock(func() time.Time { return ts }))
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for i := 0; i < 20; i++ {
		task, err := s.Add("same tick")
		require.NoError(t, err)
		assert.False(t, seen[task.ID], "collision: %d", task.ID)
		seen[task.ID] = true
	}
}

func TestAdd_TrimsText(t *testing.T) {
	s, _ := newTestStore(t)
	task, err := s.Add("  padded  ")
	require.NoError(t, err)
	assert.Equal(t, "padded", task.Text)
}

func TestAdd_EmptyRejected(t *testing.T) {
	s, slot := newTestStore(t)
	_, err := s.Add("keep")
	require.NoError(t, err)
	writes := slot.Writes()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.Add(text)
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, writes, slot.Writes())
}

func TestAdd_PersistsEveryMutation(t *testing.T) {
	s, slot := newTestStore(t)
	_, err := s.Add("one")
	require.NoError(t, err)
	assert.Equal(t, 1, slot.Writes())

	reloaded, err := Open(slot)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
}

// --- Toggle ---

func TestToggle_Involution(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.Add("X")

	toggled, err := s.Toggle(task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	back, err := s.Toggle(task.ID)
	require.NoError(t, err)
	assert.False(t, back.Completed)
}

func TestToggle_MovesBetweenViews(t *testing.T) {
	s, _ := newTestStore(t)
	x, _ := s.Add("X")
	_, err := s.Toggle(x.ID)
	require.NoError(t, err)

	s.SetFilter(model.FilterPending)
	assert.Empty(t, texts(s.FilteredView()))

	s.SetFilter(model.FilterCompleted)
	assert.Equal(t, []string{"X"}, texts(s.FilteredView()))
}

func TestToggle_UnknownID(t *testing.T) {
	s, slot := newTestStore(t)
	s.Add("X")
	writes := slot.Writes()

	_, err := s.Toggle(42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, writes, slot.Writes())
}

// --- Delete ---

func TestDelete_RemovesTask(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("A")
	s.Add("B")

	require.NoError(t, s.Delete(a.ID))
	assert.Equal(t, []string{"B"}, texts(s.FilteredView()))
	_, err := s.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_UnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("A")

	assert.ErrorIs(t, s.Delete(99), ErrNotFound)
	assert.Equal(t, 1, s.Len())
}

func TestDelete_EndsEditSessionOnThatTask(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("A")
	s.StartEdit(a.ID)

	require.NoError(t, s.Delete(a.ID))
	_, editing := s.Editing()
	assert.False(t, editing)
}

// --- Edit session ---

func TestStartEdit_SetsSession(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("A")

	s.StartEdit(a.ID)
	got, ok := s.Editing()
	assert.True(t, ok)
	assert.Equal(t, a.ID, got)
}

func TestStartEdit_SwitchAbandonsPriorEdit(t *testing.T) {
	s, slot := newTestStore(t)
	a, _ := s.Add("A")
	b, _ := s.Add("B")
	writes := slot.Writes()

	s.StartEdit(a.ID)
	s.StartEdit(b.ID)

	got, ok := s.Editing()
	assert.True(t, ok)
	assert.Equal(t, b.ID, got)
	gotA, _ := s.Get(a.ID)
	assert.Equal(t, "A", gotA.Text)
	assert.Equal(t, writes, slot.Writes())
}

func TestStartEdit_UnknownIDAccepted(t *testing.T) {
	s, _ := newTestStore(t)
	s.StartEdit(12345)
	got, ok := s.Editing()
	assert.True(t, ok)
	assert.Equal(t, int64(12345), got)
}

func TestSaveEdit_UpdatesText(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("A")
	s.StartEdit(a.ID)

	updated, err := s.SaveEdit(a.ID, "Line one<br>Line <b>two</b>")
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", updated.Text)

	got, _ := s.Get(a.ID)
	assert.Equal(t, "Line one\nLine two", got.Text)
	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestSaveEdit_EmptyDiscards(t *testing.T) {
	s, slot := newTestStore(t)
	x, _ := s.Add("X")
	writes := slot.Writes()
	s.StartEdit(x.ID)

	_, err := s.SaveEdit(x.ID, "")
	assert.ErrorIs(t, err, ErrEmptyText)

	got, err := s.Get(x.ID)
	require.NoError(t, err)
	assert.Equal(t, "X", got.Text)
	_, editing := s.Editing()
	assert.False(t, editing)
	assert.Equal(t, writes, slot.Writes())
}

func TestSaveEdit_MarkupOnlyDiscards(t *testing.T) {
	s, _ := newTestStore(t)
	x, _ := s.Add("X")
	s.StartEdit(x.ID)

	_, err := s.SaveEdit(x.ID, "<br><span> </span>")
	assert.ErrorIs(t, err, ErrEmptyText)
	got, _ := s.Get(x.ID)
	assert.Equal(t, "X", got.Text)
}

func TestSaveEdit_UnknownIDDiscards(t *testing.T) {
	s, _ := newTestStore(t)
	s.StartEdit(7)

	_, err := s.SaveEdit(7, "text")
	assert.ErrorIs(t, err, ErrNotFound)
	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestCancelEdit_KeepsText(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Add("A")
	s.StartEdit(a.ID)
	s.CancelEdit()

	_, editing := s.Editing()
	assert.False(t, editing)
	got, _ := s.Get(a.ID)
	assert.Equal(t, "A", got.Text)
}

// --- Filter & view ---

func TestFilteredView_Partition(t *testing.T) {
	s, _ := newTestStore(t)
	var ids []int64
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		task, _ := s.Add(text)
		ids = append(ids, task.ID)
	}
	s.Toggle(ids[1])
	s.Toggle(ids[3])

	s.SetFilter(model.FilterAll)
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, texts(s.FilteredView()))

	s.SetFilter(model.FilterCompleted)
	assert.Equal(t, []string{"d", "b"}, texts(s.FilteredView()))

	s.SetFilter(model.FilterPending)
	assert.Equal(t, []string{"e", "c", "a"}, texts(s.FilteredView()))
}

func TestFilteredView_Restartable(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a")
	s.Add("b")

	view := s.FilteredView()
	assert.Equal(t, texts(view), texts(view))
}

func TestFilteredView_EarlyStop(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a")
	s.Add("b")
	s.Add("c")

	var got []string
	for task := range s.FilteredView() {
		got = append(got, task.Text)
		break
	}
	assert.Equal(t, []string{"c"}, got)
}

func TestSetFilter_DoesNotTouchCollection(t *testing.T) {
	s, slot := newTestStore(t)
	x, _ := s.Add("X")
	s.Toggle(x.ID)
	writes := slot.Writes()

	s.SetFilter(model.FilterPending)
	assert.Equal(t, model.FilterPending, s.Filter())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, writes, slot.Writes())
}

func TestStats_SumInvariant(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 0; i < 7; i++ {
		task, _ := s.Add("t")
		if i%3 == 0 {
			s.Toggle(task.ID)
		}
		st := s.Stats()
		assert.Equal(t, st.Total, st.Pending+st.Completed)
	}
	assert.Equal(t, model.Stats{Total: 7, Completed: 3, Pending: 4}, s.Stats())
}

// --- ClearAll ---

func TestClearAll_Confirmed(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a")
	s.Add("b")

	asked := 0
	cleared, err := s.ClearAll(func() bool { asked++; return true })
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, 1, asked)
	assert.Equal(t, 0, s.Len())
}

func TestClearAll_Declined(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a")

	cleared, err := s.ClearAll(func() bool { return false })
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Equal(t, 1, s.Len())
}

func TestClearAll_EmptyNeverPrompts(t *testing.T) {
	s, slot := newTestStore(t)

	asked := 0
	cleared, err := s.ClearAll(func() bool { asked++; return true })
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Zero(t, asked)
	assert.Equal(t, 0, s.Len())
	assert.Zero(t, slot.Writes())
}

// --- Persistence ---

func TestRoundTrip_FileSlot(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(NewFileSlot(dir, "todos"))
	require.NoError(t, err)

	a, _ := s.Add("Buy milk")
	s.Add("Line one\nLine two")
	s.Add("Call mom")
	s.Toggle(a.ID)
	require.NoError(t, s.Close())

	reloaded, err := Open(NewFileSlot(dir, "todos"))
	require.NoError(t, err)

	want := s.Tasks()
	got := reloaded.Tasks()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Text, got[i].Text)
		assert.Equal(t, want[i].Completed, got[i].Completed)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
}

func TestOpen_ReloadedIDsNotReused(t *testing.T) {
	future := time.Now().Add(time.Hour).UnixMilli()
	payload := []byte(`[{"id": ` + strconv.FormatInt(future, 10) + `, "text": "from the future", "completed": false, "createdAt": "2026-01-01T00:00:00.000Z"}]`)
	s, err := Open(NewMemorySlot("todos", payload))
	require.NoError(t, err)

	task, err := s.Add("new")
	require.NoError(t, err)
	assert.Greater(t, task.ID, future)
}

func TestOpen_BrowserPayload(t *testing.T) {
	payload := []byte(`[
		{"id":1767225600123,"text":"Buy milk","completed":true,"createdAt":"2026-01-01T00:00:00.123Z"},
		{"id":1767225500000,"text":"Walk dog","completed":false,"createdAt":"2026-01-01T00:00:00.000Z"}
	]`)
	s, err := Open(NewMemorySlot("todos", payload))
	require.NoError(t, err)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(1767225600123), tasks[0].ID)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, "Walk dog", tasks[1].Text)
}

func TestOpen_MissingSlotIsEmpty(t *testing.T) {
	s, err := Open(NewFileSlot(t.TempDir(), "todos"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestOpen_CorruptPayloadIsEmpty(t *testing.T) {
	for _, payload := range []string{"{{not json", `{"id": 1}`, `[{"id": "x"}]`, `true`} {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		slot := NewMemorySlot("todos", []byte(payload))
		s, err := Open(slot, WithLogger(logger))
		require.NoError(t, err, "payload %q", payload)
		assert.Equal(t, 0, s.Len(), "payload %q", payload)
		assert.Contains(t, logs.String(), "ignoring corrupt task slot")
		assert.Equal(t, payload, string(slot.Kept()), "payload %q", payload)
	}
}

func TestOpen_ToleratesCommentsAndTrailingCommas(t *testing.T) {
	payload := []byte(`[
		// hand edited
		{"id": 5, "text": "kept", "completed": false, "createdAt": "2026-01-01T00:00:00Z"},
	]`)
	s, err := Open(NewMemorySlot("todos", payload))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestOpen_SkipsInvalidRecords(t *testing.T) {
	payload := []byte(`[
		{"id": 3, "text": "ok", "completed": false, "createdAt": "2026-01-01T00:00:00Z"},
		{"id": 0, "text": "no id", "completed": false, "createdAt": "2026-01-01T00:00:00Z"},
		{"id": 2, "text": "   ", "completed": false, "createdAt": "2026-01-01T00:00:00Z"},
		{"id": 3, "text": "duplicate", "completed": false, "createdAt": "2026-01-01T00:00:00Z"}
	]`)
	var logs bytes.Buffer
	slot := NewMemorySlot("todos", payload)
	s, err := Open(slot, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "ok", tasks[0].Text)
	assert.Contains(t, logs.String(), "count=3")
	assert.Equal(t, payload, slot.Kept())
}

func TestOpen_WithFilter(t *testing.T) {
	s, err := Open(NewMemorySlot("todos", nil), WithFilter(model.FilterPending))
	require.NoError(t, err)
	assert.Equal(t, model.FilterPending, s.Filter())
}

func TestCommit_WriteFailureLeavesStateUnchanged(t *testing.T) {
	s, slot := newTestStore(t)
	a, _ := s.Add("A")
	slot.Err = errors.New("disk full")

	_, err := s.Add("B")
	assert.Error(t, err)
	_, err = s.Toggle(a.ID)
	assert.Error(t, err)
	assert.Error(t, s.Delete(a.ID))

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "A", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
}

func TestSaveEdit_WriteFailureKeepsSession(t *testing.T) {
	s, slot := newTestStore(t)
	a, _ := s.Add("A")
	s.StartEdit(a.ID)
	slot.Err = errors.New("disk full")

	_, err := s.SaveEdit(a.ID, "changed")
	assert.Error(t, err)
	got, ok := s.Editing()
	assert.True(t, ok)
	assert.Equal(t, a.ID, got)
}

func TestFlush_WritesCurrentState(t *testing.T) {
	s, slot := newTestStore(t)
	s.Add("A")
	before := slot.Writes()

	require.NoError(t, s.Flush())
	assert.Equal(t, before+1, slot.Writes())
}

func TestFlush_EmptyCollectionWritesArray(t *testing.T) {
	s, slot := newTestStore(t)
	require.NoError(t, s.Flush())
	data, _ := slot.Read()
	assert.JSONEq(t, "[]", string(data))
}

func TestOpen_CleanPayloadNotKept(t *testing.T) {
	slot := NewMemorySlot("todos", []byte(`[{"id": 1, "text": "ok", "completed": false, "createdAt": "2026-01-01T00:00:00Z"}]`))
	s, err := Open(slot)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Nil(t, slot.Kept())
}

type failingKeeper struct{ *MemorySlot }

func (failingKeeper) Keep([]byte) (string, error) { return "", errors.New("read-only") }

func TestOpen_KeepFailureIsReturned(t *testing.T) {
	slot := failingKeeper{NewMemorySlot("todos", []byte("{{not json"))}
	_, err := Open(slot)
	assert.ErrorContains(t, err, "preserving unreadable task data")
	assert.Equal(t, 0, slot.Writes())
}
