package commands

import (
	"context"
	"flag"
	"fmt"

	"vtodo/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "vtodo help" }
func (c *HelpCmd) Needs() Requirement { return NeedsNothing }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  vtodo                                    List all items
  vtodo list [common flags] [--open] [<list-name>]
  vtodo lists [common flags]
  vtodo done [common flags] [--list <list-name>] <ref>
  vtodo undo [common flags] [--list <list-name>] <ref>
  vtodo check [common flags]
  vtodo serve [common flags] [--listen <addr>]
  vtodo login [common flags]               Google Tasks only
  vtodo logout [common flags]              Google Tasks only
  vtodo help
  vtodo version

References:
  a2      item 2 of list a
  2       item 2 when there is only one list

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Settings are read from config.yaml in the config directory and from
VTODO_* environment variables.
`
