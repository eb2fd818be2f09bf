package markdown

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rogersnm/todo/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
	doneCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
)

// RenderTaskTable lists tasks in the given order. Multi-line text stays
// multi-line inside its cell.
func RenderTaskTable(tasks []model.Task, f model.Filter) string {
	if len(tasks) == 0 {
		return RenderEmptyState(f)
	}
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = []string{fmt.Sprint(t.ID), Checkbox(t.Completed), t.Text, t.CreatedAt.Local().Format("2006-01-02 15:04")}
	}
	return renderTable([]string{"ID", "Done", "Task", "Created"}, rows, func(row int) bool {
		return tasks[row].Completed
	})
}

func renderTable(headers []string, rows [][]string, done func(row int) bool) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			if col == 2 && row >= 0 && row < len(rows) && done(row) {
				return doneCellStyle
			}
			return cellStyle
		})
	return t.Render()
}
