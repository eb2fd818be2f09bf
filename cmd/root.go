package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	mtp "github.com/modeltoolsprotocol/go-sdk"
	"github.com/rogersnm/todo/internal/config"
	"github.com/rogersnm/todo/internal/model"
	"github.com/rogersnm/todo/internal/repofile"
	"github.com/rogersnm/todo/internal/store"
	"github.com/rogersnm/todo/internal/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

// app carries everything a command needs. One is built per process (or per
// test) and handed to the command constructors.
type app struct {
	dataDir  string
	slotFlag string
	filter   model.Filter
	debug    bool

	cfg   *config.Config
	log   *slog.Logger
	store *store.TaskStore

	stderr  io.Writer
	confirm func(title string) (bool, error)
	runUI   func(ctx context.Context, s *store.TaskStore, opts ...tui.Option) error
}

func newApp() *app {
	return &app{
		dataDir: config.DefaultDataDir(),
		stderr:  os.Stderr,
		confirm: confirmPrompt,
		runUI:   tui.Run,
	}
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	if err := huh.NewConfirm().Title(title).Value(&ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// open loads config, resolves the slot and opens the task store.
func (a *app) open(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.debug {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	if err := os.MkdirAll(a.dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	cfg, err := config.Load(a.dataDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	slotName, err := a.resolveSlot()
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("filter") {
		a.filter = cfg.DefaultFilter
	}
	if a.filter == "" {
		a.filter = model.FilterAll
	}

	slot := store.NewFileSlot(a.dataDir, slotName)
	a.log.Debug("opening task slot", "path", slot.Path())
	a.store, err = store.Open(slot, store.WithLogger(a.log), store.WithFilter(a.filter))
	if err != nil {
		return fmt.Errorf("opening task slot %s: %w", slotName, err)
	}
	return nil
}

// resolveSlot picks the slot from --slot, then a .todo-slot file above the
// working directory, then config.
func (a *app) resolveSlot() (string, error) {
	name := a.slotFlag
	if name == "" {
		if cwd, err := os.Getwd(); err == nil {
			link, ok, err := repofile.Lookup(cwd)
			if err != nil {
				return "", fmt.Errorf("reading %s: %w", repofile.FileName, err)
			}
			if ok {
				a.log.Debug("using linked slot", "slot", link.Slot, "dir", link.Dir)
				name = link.Slot
			}
		}
	}
	if name == "" {
		name = a.cfg.SlotName()
	}
	if err := config.ValidateSlotName(name); err != nil {
		return "", err
	}
	return name, nil
}

// ui runs the interactive list with the configured clear confirmation.
func (a *app) ui(cmd *cobra.Command) error {
	return a.runUI(cmd.Context(), a.store, tui.WithConfirmClear(a.cfg.ShouldConfirmClear()))
}

// close writes the collection out one last time.
func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		return err
	}
	a.store = nil
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "todo",
		Short:   "A small persistent task list",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		// Without a subcommand, start the interactive list.
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ui(cmd)
		},
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", a.dataDir, "data directory path")
	root.PersistentFlags().StringVar(&a.slotFlag, "slot", "", "task slot to use (default from .todo-slot or config)")
	root.PersistentFlags().Var(&a.filter, "filter", "view filter: all, completed or pending")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newToggleCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newClearCmd(a),
		newStatsCmd(a),
		newShowCmd(a),
		newSearchCmd(a),
		newLinkCmd(a),
		newUnlinkCmd(a),
		newUICmd(a),
	)

	mtp.WithDescribe(root, describeOptions())
	return root
}

func describeOptions() *mtp.DescribeOptions {
	return &mtp.DescribeOptions{
		Commands: map[string]*mtp.CommandAnnotation{
			"add": {
				Examples: []mtp.Example{
					{Description: "Add a task", Command: "todo add Buy milk"},
				},
			},
			"list": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Table of tasks with ID, completion, text and creation time, newest first",
				},
				Examples: []mtp.Example{
					{Description: "List pending tasks", Command: "todo list --filter pending"},
				},
			},
			"toggle": {
				Examples: []mtp.Example{
					{Description: "Mark a task done or not done", Command: "todo toggle 1767225600000"},
				},
			},
			"edit": {
				Examples: []mtp.Example{
					{Description: "Replace a task's text", Command: "todo edit 1767225600000 \"Buy oat milk\""},
					{Description: "Edit a task in $EDITOR", Command: "todo edit 1767225600000"},
				},
			},
			"delete": {
				Examples: []mtp.Example{
					{Description: "Delete a task", Command: "todo delete 1767225600000"},
				},
			},
			"clear": {
				Examples: []mtp.Example{
					{Description: "Clear all tasks (interactive confirm)", Command: "todo clear"},
					{Description: "Clear all tasks (skip confirm)", Command: "todo clear --force"},
				},
			},
			"stats": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Total, completed and pending task counts",
				},
			},
			"show": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/markdown",
					Description: "Task as markdown with YAML frontmatter (id, completed, created_at)",
				},
				Examples: []mtp.Example{
					{Description: "Show a task rendered for the terminal", Command: "todo show 1767225600000 --pretty"},
				},
			},
			"search": {
				Stdout: &mtp.IODescriptor{
					ContentType: "text/plain",
					Description: "Matching tasks with ID, headline and snippet",
				},
				Examples: []mtp.Example{
					{Description: "Search tasks", Command: "todo search milk"},
				},
			},
			"link": {
				Examples: []mtp.Example{
					{Description: "Use a separate slot inside this directory", Command: "todo link work"},
				},
			},
			"unlink": {
				Examples: []mtp.Example{
					{Description: "Remove the directory's slot link", Command: "todo unlink"},
				},
			},
		},
	}
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context; the
// collection is flushed on the way out either way.
func Execute() error {
	a := newApp()
	root := newRootCmd(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
