package store

import (
	"strings"
	"unicode"

	"github.com/rogersnm/todo/internal/model"
)

// snippetContext is how many characters of context a snippet keeps on each
// side of the match.
const snippetContext = 30

type SearchResult struct {
	Task    model.Task
	Snippet string
}

// Search returns tasks in the current view whose text contains query,
// case-insensitively, newest first.
func (s *TaskStore) Search(query string) []SearchResult {
	q := []rune(strings.TrimSpace(query))
	if len(q) == 0 {
		return nil
	}
	var results []SearchResult
	for t := range s.FilteredView() {
		text := []rune(t.Text)
		idx := foldIndex(text, q)
		if idx < 0 {
			continue
		}
		results = append(results, SearchResult{Task: t, Snippet: snippet(text, idx, len(q))})
	}
	return results
}

// foldIndex returns the rune offset of the first case-insensitive match of
// query in text, or -1. Runes are compared one to one so the offset is valid
// for text itself.
func foldIndex(text, query []rune) int {
	for i := 0; i+len(query) <= len(text); i++ {
		match := true
		for j, r := range query {
			if !equalFold(text[i+j], r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// snippet cuts the match at text[idx:idx+n] out with some context, on
// character boundaries.
func snippet(text []rune, idx, n int) string {
	start := max(idx-snippetContext, 0)
	end := min(idx+n+snippetContext, len(text))
	s := string(text[start:end])
	if start > 0 {
		s = "..." + s
	}
	if end < len(text) {
		s = s + "..."
	}
	return strings.ReplaceAll(s, "\n", " ")
}
