package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"vtodo/internal/exitcode"
	"vtodo/internal/output"
	"vtodo/internal/todo"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `vtodo` (no args) and `vtodo list <list-name>`.
type ListCmd struct {
	open bool
	now  func() time.Time
}

// SetOpenOnly hides completed items (for testing).
func (c *ListCmd) SetOpenOnly(open bool) {
	c.open = open
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List items" }
func (c *ListCmd) Usage() string      { return "vtodo list [--open] [<list-name>]" }
func (c *ListCmd) Needs() Requirement { return NeedsLists }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	lists, err := lettered(env.Lists)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}

	name := strings.TrimSpace(strings.Join(args, " "))
	if name != "" {
		l, err := env.Lists.Find(name)
		if err != nil {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			return exitcode.FromError(err)
		}
		for i, candidate := range lists {
			if candidate.UniqueID() == l.UniqueID() {
				c.print(env, letterOf(i), l)
			}
		}
		return exitcode.Success
	}

	if len(lists) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(env.Out, "no lists found")
		}
		return exitcode.Success
	}
	for i, l := range lists {
		c.print(env, letterOf(i), l)
	}
	return exitcode.Success
}

func (c *ListCmd) print(env *Env, letter rune, l todo.List) {
	now := time.Now()
	if c.now != nil {
		now = c.now()
	}

	output.FormatListHeader(env.Out, letter, l.Name(), l.Available())
	items, ok := l.Items()
	if !ok {
		fmt.Fprintf(env.ErrOut, "warning: no data for %s\n", l.Name())
		return
	}
	// Numbers are positions in the full list so refs stay valid with --open.
	for i, item := range items {
		if c.open && item.Status == todo.StatusCompleted {
			continue
		}
		output.FormatItem(env.Out, i+1, item, now)
	}
}
