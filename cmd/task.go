package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rogersnm/todo/internal/editor"
	"github.com/rogersnm/todo/internal/id"
	"github.com/rogersnm/todo/internal/markdown"
	"github.com/rogersnm/todo/internal/sanitize"
	"github.com/rogersnm/todo/internal/store"
	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.store.Add(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", t.ID)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := slices.Collect(a.store.FilteredView())
			fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderTaskTable(tasks, a.store.Filter()))
			return nil
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			t, err := a.store.Toggle(taskID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s\n", t.ID, markdown.StatusLabel(t.Completed))
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> [text...]",
		Short: "Replace a task's text, or edit it in $EDITOR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			t, err := a.store.Get(taskID)
			if err != nil {
				return err
			}

			text := strings.Join(args[1:], " ")
			toggle := false
			if len(args) == 1 {
				content, err := markdown.MarshalTask(t)
				if err != nil {
					return err
				}
				edited, err := editor.Edit(fmt.Sprintf("todo-%d-*.md", t.ID), content)
				if err != nil {
					return err
				}
				parsed, err := markdown.ParseTask(bytes.NewReader(edited))
				if err != nil {
					return err
				}
				text = parsed.Text
				toggle = parsed.Completed != t.Completed
			}

			a.store.StartEdit(taskID)
			saved, err := a.store.SaveEdit(taskID, sanitize.Markup(text))
			if errors.Is(err, store.ErrEmptyText) {
				fmt.Fprintln(cmd.OutOrStdout(), "Empty text; edit discarded")
				return nil
			}
			if err != nil {
				return err
			}
			if toggle {
				if saved, err = a.store.Toggle(taskID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", saved.ID)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Delete(taskID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", taskID)
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			var confirm store.Confirmer
			var promptErr error
			if !force && a.cfg.ShouldConfirmClear() {
				confirm = func() bool {
					ok, err := a.confirm("Are you sure you want to clear all tasks?")
					if err != nil {
						promptErr = err
						return false
					}
					return ok
				}
			}

			cleared, err := a.store.ClearAll(confirm)
			if err != nil {
				return err
			}
			if promptErr != nil {
				return fmt.Errorf("confirmation cancelled: %w", promptErr)
			}
			switch {
			case cleared:
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared all tasks")
			case a.store.Len() == 0:
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to clear")
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			}
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "skip confirmation")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderStats(a.store.Stats()))
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := id.Parse(args[0])
			if err != nil {
				return err
			}
			t, err := a.store.Get(taskID)
			if err != nil {
				return err
			}

			pretty, _ := cmd.Flags().GetBool("pretty")
			if !pretty {
				data, err := markdown.MarshalTask(t)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			fields := []string{
				markdown.RenderField("ID", fmt.Sprint(t.ID)),
				markdown.RenderField("Status", markdown.RenderStatus(t.Completed)),
				markdown.RenderField("Created", t.CreatedAt.Local().Format("2006-01-02 15:04")),
			}
			fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderEntityHeader(markdown.Headline(t.Text), fields))
			rendered, err := markdown.RenderMarkdown(t.Text)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), t.Text)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	cmd.Flags().Bool("pretty", false, "render with ANSI styling")
	return cmd
}

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ui(cmd)
		},
	}
}
