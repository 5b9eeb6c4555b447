package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

func newLabelCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage labels",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "add <name> <color>",
			Short:   "Create a label, or recolor an existing one",
			Example: `  toodle label add work "#ff0000"`,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				label, err := a.store.CreateLabel(args[0], args[1])
				if errors.Is(err, types.ErrInvalidName) {
					return userErrorf("label name must not be empty")
				}
				if err != nil {
					return fmt.Errorf("create label: %w", err)
				}
				return a.showLabels([]types.Label{*label})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List labels by name",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				labels, err := a.store.FetchLabels()
				if err != nil {
					return fmt.Errorf("list labels: %w", err)
				}
				return a.showLabels(labels)
			},
		},
		&cobra.Command{
			Use:   "color <name> <color>",
			Short: "Change a label's color",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				label, err := a.store.SetLabelColor(args[0], args[1])
				if errors.Is(err, types.ErrNotFound) {
					return userErrorf("unknown label %q", args[0])
				}
				if err != nil {
					return fmt.Errorf("set label color: %w", err)
				}
				return a.showLabels([]types.Label{*label})
			},
		},
	)
	return cmd
}

func (a *app) showLabels(labels []types.Label) error {
	if done, err := a.emit(labels); done {
		return err
	}
	return renderLabels(a.out, a.renderer, labels)
}
