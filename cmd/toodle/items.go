package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		due    string
		labels []string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an item",
		Example: `  toodle add "buy milk"
  toodle add "file taxes" --due 2026-04-15 --label home`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &types.Item{Name: args[0]}
			if due != "" {
				t, err := parseDate(due, a.now())
				if err != nil {
					return err
				}
				item.DueDate = &t
			}
			resolved, err := a.resolveLabels(labels)
			if err != nil {
				return err
			}
			item.Labels = resolved

			created, err := a.store.CreateAndFetchItem(item)
			if errors.Is(err, types.ErrInvalidName) {
				return userErrorf("item name must not be empty")
			}
			if err != nil {
				return fmt.Errorf("create item: %w", err)
			}
			return a.showItems(types.Items{*created})
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date")
	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "label name (repeatable)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		label   string
		pending bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				items types.Items
				err   error
			)
			if label != "" {
				items, err = a.store.FetchItemsWithLabel(label)
			} else {
				items, err = a.store.FetchItems()
			}
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}
			if pending {
				open := types.Items{}
				for _, it := range items {
					if !it.Completed() {
						open = append(open, it)
					}
				}
				items = open
			}
			return a.showItems(items)
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "only items carrying this label")
	cmd.Flags().BoolVar(&pending, "pending", false, "hide completed items")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <uuid>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.fetchItem(args[0])
			if err != nil {
				return err
			}
			return a.showItems(types.Items{*item})
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		name        string
		due         string
		clearDue    bool
		complete    bool
		reopen      bool
		labels      []string
		clearLabels bool
	)
	cmd := &cobra.Command{
		Use:   "update <uuid>",
		Short: "Change an item's fields",
		Long: `Update changes only the fields named by flags; everything else is kept.
Without --label or --clear-labels the labels are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.fetchItem(args[0])
			if err != nil {
				return err
			}

			update := types.ItemUpdate{
				DueDate:        item.DueDate,
				CompletionDate: item.CompletionDate,
			}
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			switch {
			case clearDue:
				update.DueDate = nil
			case due != "":
				t, err := parseDate(due, a.now())
				if err != nil {
					return err
				}
				update.DueDate = &t
			}
			switch {
			case reopen:
				update.CompletionDate = nil
			case complete:
				now := a.now()
				update.CompletionDate = &now
			}
			switch {
			case clearLabels:
				update.ReplaceLabels = true
			case len(labels) > 0:
				resolved, err := a.resolveLabels(labels)
				if err != nil {
					return err
				}
				update.Labels = resolved
				update.ReplaceLabels = true
			}

			return a.applyUpdate(item, update)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "new name")
	flags.StringVar(&due, "due", "", "new due date")
	flags.BoolVar(&clearDue, "clear-due", false, "remove the due date")
	flags.BoolVar(&complete, "complete", false, "mark completed now")
	flags.BoolVar(&reopen, "reopen", false, "clear the completion date")
	flags.StringArrayVarP(&labels, "label", "l", nil, "replace labels (repeatable)")
	flags.BoolVar(&clearLabels, "clear-labels", false, "remove every label")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	cmd.MarkFlagsMutuallyExclusive("complete", "reopen")
	cmd.MarkFlagsMutuallyExclusive("label", "clear-labels")
	return cmd
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <uuid>",
		Short: "Mark an item completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.fetchItem(args[0])
			if err != nil {
				return err
			}
			now := a.now()
			return a.applyUpdate(item, types.ItemUpdate{
				DueDate:        item.DueDate,
				CompletionDate: &now,
			})
		},
	}
}

func (a *app) applyUpdate(item *types.Item, update types.ItemUpdate) error {
	err := a.store.UpdateItem(item, update)
	if errors.Is(err, types.ErrInvalidName) {
		return userErrorf("item name must not be empty")
	}
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	updated, err := a.store.FetchItem(item.UUID)
	if err != nil {
		return fmt.Errorf("fetch item: %w", err)
	}
	return a.showItems(types.Items{*updated})
}

func (a *app) fetchItem(arg string) (*types.Item, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return nil, userErrorf("invalid item id %q", arg)
	}
	item, err := a.store.FetchItem(id)
	if errors.Is(err, types.ErrNotFound) {
		return nil, userErrorf("item %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch item: %w", err)
	}
	return item, nil
}

// resolveLabels looks up labels by name; an unknown name is an error.
func (a *app) resolveLabels(names []string) ([]types.Label, error) {
	labels := make([]types.Label, 0, len(names))
	for _, n := range names {
		l, err := a.store.FetchLabel(n)
		if errors.Is(err, types.ErrNotFound) {
			return nil, userErrorf("unknown label %q (create it with: toodle label add %s COLOR)", n, n)
		}
		if err != nil {
			return nil, fmt.Errorf("fetch label: %w", err)
		}
		labels = append(labels, *l)
	}
	return labels, nil
}

func (a *app) showItems(items types.Items) error {
	if done, err := a.emit(items); done {
		return err
	}
	return renderItems(a.out, a.renderer, items, a.now())
}

