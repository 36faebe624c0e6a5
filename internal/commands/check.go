package commands

import (
	"context"
	"flag"
	"fmt"

	"vtodo/internal/bridge"
	"vtodo/internal/exitcode"
)

func init() {
	Register(&CheckCmd{})
}

// CheckCmd verifies that the configured credential is accepted.
type CheckCmd struct{}

func (c *CheckCmd) Name() string       { return "check" }
func (c *CheckCmd) Aliases() []string  { return nil }
func (c *CheckCmd) Synopsis() string   { return "Check the configured credentials" }
func (c *CheckCmd) Usage() string      { return "vtodo check [common flags]" }
func (c *CheckCmd) Needs() Requirement { return NeedsBackend }

func (c *CheckCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CheckCmd) Run(ctx context.Context, env *Env, args []string) int {
	problem, err := bridge.CheckCredentials(ctx, env.Backend)
	switch problem {
	case bridge.CredentialsOK:
		if !env.Config.Quiet {
			fmt.Fprintln(env.Out, "ok")
		}
		return exitcode.Success
	case bridge.CredentialsAuth:
		fmt.Fprintf(env.ErrOut, "error: credentials rejected: %v\n", err)
		return exitcode.AuthError
	case bridge.CredentialsConnect:
		fmt.Fprintf(env.ErrOut, "error: cannot connect: %v\n", err)
		return exitcode.BackendError
	default:
		env.Logger.Error("unexpected error checking credentials", "error", err)
		fmt.Fprintf(env.ErrOut, "error: unknown error: %v\n", err)
		return exitcode.BackendError
	}
}
