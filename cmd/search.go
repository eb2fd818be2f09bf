package cmd

import (
	"fmt"
	"strings"

	"github.com/rogersnm/todo/internal/markdown"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Search task text in the current view",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			results := a.store.Search(strings.Join(args, " "))
			if len(results) == 0 {
				fmt.Fprintln(out, "No results found.")
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(out, "%d  %s %s\n", r.Task.ID, markdown.Checkbox(r.Task.Completed), markdown.Headline(r.Task.Text))
				if r.Snippet != "" && r.Snippet != r.Task.Text {
					fmt.Fprintf(out, "    %s\n", r.Snippet)
				}
			}
			return nil
		},
	}
}
