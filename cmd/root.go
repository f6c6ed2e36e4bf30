// Package cmd implements the steplog command line.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/liuxd6825/steplog/cmd/state"
	"github.com/liuxd6825/steplog/errext"
	"github.com/liuxd6825/steplog/internal/build"
)

// This is to keep all fields needed for the main/root steplog command
type rootCommand struct {
	globalState *state.GlobalState

	cmd *cobra.Command
}

func newRootCommand(gs *state.GlobalState) *rootCommand {
	c := &rootCommand{
		globalState: gs,
	}
	// the base command when called without any subcommands.
	rootCmd := &cobra.Command{
		Use:               gs.BinaryName,
		Short:             "run browser scripts and report every step",
		Long:              "\n" + gs.Console.Banner(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		Version:           build.FullVersion(),
	}

	rootCmd.PersistentFlags().AddFlagSet(rootCmdPersistentFlagSet(gs))
	rootCmd.SetArgs(gs.CmdArgs[1:])
	rootCmd.SetOut(gs.Console.Stdout)
	rootCmd.SetErr(gs.Console.Stderr)

	subCommands := []func(*state.GlobalState) *cobra.Command{
		getCmdRun, getCmdRules, getCmdVersion,
	}

	for _, sc := range subCommands {
		rootCmd.AddCommand(sc(gs))
	}

	c.cmd = rootCmd
	return c
}

func (c *rootCommand) persistentPreRunE(_ *cobra.Command, _ []string) error {
	if c.globalState.Flags.Verbose {
		c.globalState.Logger.SetLevel(logrus.DebugLevel)
	}
	if c.globalState.Flags.NoColor {
		c.globalState.Console.DisableColors()
	}
	if c.globalState.Flags.Quiet {
		c.globalState.Logger.SetOutput(io.Discard)
	}
	c.globalState.Logger.Debugf("steplog version: v%s", build.FullVersion())
	return nil
}

func (c *rootCommand) execute() {
	ctx, cancel := context.WithCancel(c.globalState.Ctx)
	defer cancel()
	c.globalState.Ctx = ctx

	err := c.cmd.Execute()
	if err == nil {
		cancel()
		return
	}

	exitCode := -1
	if code, ok := errext.ExitCodeOf(err); ok {
		exitCode = int(code)
	}

	errText, fields := errext.Format(err)
	c.globalState.Logger.WithFields(fields).Error(errText)

	c.globalState.OSExit(exitCode)
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	gs := state.NewGlobalState(context.Background())

	newRootCommand(gs).execute()
}

// ExecuteWithGlobalState runs the root command with an existing GlobalState.
// This is needed by integration tests, and we don't want to modify the
// Execute() signature to avoid breaking external code.
func ExecuteWithGlobalState(gs *state.GlobalState) {
	newRootCommand(gs).execute()
}

func rootCmdPersistentFlagSet(gs *state.GlobalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.BoolVarP(&gs.Flags.Verbose, "verbose", "v", gs.Flags.Verbose, "enable verbose logging")
	flags.BoolVarP(&gs.Flags.Quiet, "quiet", "q", gs.Flags.Quiet, "disable log output")
	flags.BoolVar(&gs.Flags.NoColor, "no-color", gs.Flags.NoColor, "disable colored output")
	flags.Lookup("no-color").DefValue = fmt.Sprint(gs.DefaultFlags.NoColor)
	return flags
}
