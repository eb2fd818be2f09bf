package cmd

import (
	"fmt"
	"os"

	"github.com/rogersnm/todo/internal/config"
	"github.com/rogersnm/todo/internal/repofile"
	"github.com/spf13/cobra"
)

func newLinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "link <slot>",
		Short: "Use a separate task slot inside the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateSlotName(args[0]); err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			link, err := repofile.Create(cwd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to slot %s\n", link.Dir, link.Slot)
			return nil
		},
	}
}

func newUnlinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink",
		Short: "Remove the current directory's slot link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			link, ok, err := repofile.Load(cwd)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No slot linked here")
				return nil
			}
			if err := link.Remove(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (was %s)\n", repofile.FileName, link.Slot)
			return nil
		},
	}
}
