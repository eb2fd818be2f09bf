package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rogersnm/todo/internal/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func StatusLabel(completed bool) string {
	if completed {
		return "completed"
	}
	return "pending"
}

func RenderStatus(completed bool) string {
	if completed {
		return doneStyle.Render(StatusLabel(true))
	}
	return pendingStyle.Render(StatusLabel(false))
}

// Checkbox is the one-cell completion marker used in lists.
func Checkbox(completed bool) string {
	if completed {
		return doneStyle.Render("[x]")
	}
	return "[ ]"
}

func RenderField(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func RenderStats(s model.Stats) string {
	return strings.Join([]string{
		RenderField("Total", fmt.Sprint(s.Total)),
		RenderField("Completed", fmt.Sprint(s.Completed)),
		RenderField("Pending", fmt.Sprint(s.Pending)),
	}, "  ")
}

func RenderEntityHeader(title string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString("  " + f + "\n")
	}
	return sb.String()
}

// Headline is the first line of a task's text, used where a single line fits.
func Headline(text string) string {
	line, rest, _ := strings.Cut(text, "\n")
	if strings.TrimSpace(rest) != "" {
		return line + " …"
	}
	return line
}

// EmptyState returns the title and hint shown when a view has no tasks.
func EmptyState(f model.Filter) (title, hint string) {
	if f == model.FilterAll || f == "" {
		return "No tasks found!", "Add your first task to get started."
	}
	return fmt.Sprintf("No %s tasks found!", f), `Switch to "all" to see your other tasks.`
}

func RenderEmptyState(f model.Filter) string {
	title, hint := EmptyState(f)
	return title + "\n" + hintStyle.Render(hint)
}
