package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskbook/pkg/task"
)

func newAddCmd(c *cli) *cobra.Command {
	var title, description, due, completedOn, location string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := task.ParseOptionalDate(due)
			if err != nil {
				return fmt.Errorf("--due: %w", err)
			}
			completion, err := task.ParseOptionalDate(completedOn)
			if err != nil {
				return fmt.Errorf("--completed-on: %w", err)
			}
			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			t, err := s.Create(cmd.Context(), task.Input{
				Title:          title,
				Description:    description,
				DueDate:        dueDate,
				CompletionDate: completion,
				Location:       location,
			})
			if err := warnPersist(cmd, err); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "task title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description (required)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&completedOn, "completed-on", "", "completion date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&location, "location", "l", "", "where the task happens")
	return cmd
}

func newListCmd(c *cli) *cobra.Command {
	var sortFlag, query string
	var statuses []string
	var asJSON, watch bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			mode := s.SortMode
			if cmd.Flags().Changed("sort") {
				if mode, err = task.ParseSortMode(sortFlag); err != nil {
					return err
				}
			}
			filter := task.FilterOptions{Query: query}
			for _, raw := range statuses {
				st, err := task.ParseStatus(raw)
				if err != nil {
					return err
				}
				filter.Statuses = append(filter.Statuses, st)
			}

			render := func(tasks []task.Task) error {
				if asJSON {
					return printJSON(cmd.OutOrStdout(), tasks)
				}
				return printTable(cmd.OutOrStdout(), tasks)
			}
			if err := render(s.List(mode, filter)); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			if !s.Watchable() {
				return fmt.Errorf("--watch needs the file storage driver")
			}

			updates := s.Store.Subscribe()
			defer s.Store.Unsubscribe(updates)
			if err := s.Watch(cmd.Context()); err != nil {
				return err
			}
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case snap := <-updates:
					fmt.Fprintf(cmd.OutOrStdout(), "\n-- %s --\n", time.Now().Format(time.TimeOnly))
					if err := render(task.Order(task.Filter(snap, filter), mode)); err != nil {
						return err
					}
				}
			}
		},
	}
	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "none", "order: none, date or status")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only tasks with this status (repeatable)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only tasks whose text contains this")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and reprint when the task file changes")
	return cmd
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one task as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			t, ok := s.Store.Get(args[0])
			if !ok {
				return fmt.Errorf("task %s: %w", args[0], task.ErrNotFound)
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <new|in-progress|completed|cancelled>",
		Short: "Change a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := task.ParseStatus(args[1])
			if err != nil {
				return err
			}
			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			return warnPersist(cmd, s.SetStatus(cmd.Context(), args[0], st))
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			return warnPersist(cmd, s.Delete(cmd.Context(), args[0]))
		},
	}
}
