package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"taskbook/pkg/task"
)

func printTable(w io.Writer, tasks []task.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tDUE\tCOMPLETED\tTITLE\tLOCATION")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Status, dateOrDash(t.DueDate), dateOrDash(t.CompletionDate), t.Title, t.Location)
	}
	return tw.Flush()
}

func dateOrDash(d *task.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
