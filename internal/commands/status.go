package commands

import (
	"context"
	"flag"
	"fmt"

	"vtodo/internal/exitcode"
	"vtodo/internal/todo"
)

func init() {
	Register(NewDoneCmd())
	Register(NewUndoCmd())
}

// StatusCmd sets the status of one item. It backs done and undo.
type StatusCmd struct {
	name     string
	status   todo.Status
	synopsis string
	listName string
}

// NewDoneCmd returns the command marking an item completed.
func NewDoneCmd() *StatusCmd {
	return &StatusCmd{name: "done", status: todo.StatusCompleted, synopsis: "Mark an item completed"}
}

// NewUndoCmd returns the command reopening an item.
func NewUndoCmd() *StatusCmd {
	return &StatusCmd{name: "undo", status: todo.StatusNeedsAction, synopsis: "Mark an item not completed"}
}

// SetListName sets the list name (for testing).
func (c *StatusCmd) SetListName(name string) {
	c.listName = name
}

func (c *StatusCmd) Name() string       { return c.name }
func (c *StatusCmd) Aliases() []string  { return nil }
func (c *StatusCmd) Synopsis() string   { return c.synopsis }
func (c *StatusCmd) Needs() Requirement { return NeedsLists }
func (c *StatusCmd) Usage() string {
	return fmt.Sprintf("vtodo %s [--list <list-name>] <ref>", c.name)
}

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listName, "list", "", "")
	fs.StringVar(&c.listName, "l", "", "")
}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string) int {
	ref, err := ParseItemRef(args)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if c.listName != "" && ref.HasLetter {
		fmt.Fprintln(env.ErrOut, "error: cannot use both --list and list letter")
		return exitcode.UserError
	}

	l, code := c.resolveList(env, ref)
	if l == nil {
		return code
	}
	if !l.SupportedFeatures().Has(todo.FeatureUpdateItem) {
		fmt.Fprintf(env.ErrOut, "error: list does not support updates: %s\n", l.Name())
		return exitcode.UserError
	}

	items, ok := l.Items()
	if !ok {
		fmt.Fprintf(env.ErrOut, "error: no data for %s\n", l.Name())
		return exitcode.BackendError
	}
	if ref.Num < 1 || ref.Num > len(items) {
		fmt.Fprintf(env.ErrOut, "error: item number out of range: %d\n", ref.Num)
		return exitcode.UserError
	}

	item := items[ref.Num-1]
	item.Status = c.status
	if err := l.UpdateItem(ctx, item); err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.FromError(err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}

// resolveList picks the list from --list, the ref's letter, or the only
// list there is. A nil list comes with the exit code to return.
func (c *StatusCmd) resolveList(env *Env, ref ItemRef) (todo.List, int) {
	switch {
	case c.listName != "":
		l, err := env.Lists.Find(c.listName)
		if err != nil {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			return nil, exitcode.FromError(err)
		}
		return l, exitcode.Success
	case ref.HasLetter:
		l, err := listByLetter(env.Lists, ref.Letter)
		if err != nil {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			return nil, exitcode.UserError
		}
		return l, exitcode.Success
	}

	lists := env.Lists.Lists()
	switch len(lists) {
	case 0:
		fmt.Fprintln(env.ErrOut, "error: no lists found")
		return nil, exitcode.UserError
	case 1:
		return lists[0], exitcode.Success
	default:
		fmt.Fprintln(env.ErrOut, "error: list letter required")
		return nil, exitcode.UserError
	}
}
