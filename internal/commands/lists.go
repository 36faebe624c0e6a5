package commands

import (
	"context"
	"flag"
	"fmt"

	"vtodo/internal/exitcode"
	"vtodo/internal/output"
	"vtodo/internal/todo"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct{}

func (c *ListsCmd) Name() string       { return "lists" }
func (c *ListsCmd) Aliases() []string  { return nil }
func (c *ListsCmd) Synopsis() string   { return "Print all lists" }
func (c *ListsCmd) Usage() string      { return "vtodo lists [common flags]" }
func (c *ListsCmd) Needs() Requirement { return NeedsLists }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, env *Env, args []string) int {
	lists, err := lettered(env.Lists)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}

	rows := make([]output.ListSummary, 0, len(lists))
	for i, l := range lists {
		row := output.ListSummary{Letter: letterOf(i), Name: l.Name(), Available: l.Available()}
		if items, ok := l.Items(); ok {
			row.Known = true
			for _, item := range items {
				if item.Status == todo.StatusCompleted {
					row.Done++
				} else {
					row.Open++
				}
			}
		}
		rows = append(rows, row)
	}
	output.FormatListSummaries(env.Out, rows)
	return exitcode.Success
}
