package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/liuxd6825/steplog/cmd/state"
	"github.com/liuxd6825/steplog/config"
)

type cmdRules struct {
	gs     *state.GlobalState
	asYAML bool
}

func (c *cmdRules) run(cmd *cobra.Command, _ []string) error {
	conf, err := config.GetConsolidatedConfig(c.gs.FS, cmd.Flags(), c.gs.Env)
	if err != nil {
		return err
	}

	if c.asYAML {
		return c.gs.Console.PrintYAML(map[string]any{
			"logs":   conf.Logs,
			"expect": conf.Expect,
		})
	}

	rules := conf.Rules()
	if len(rules) == 0 {
		c.gs.Console.Print("no rules configured\n")
		return nil
	}
	w := tabwriter.NewWriter(c.gs.Console.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCOPE\tMETHOD\tTEMPLATE")
	for _, r := range rules {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Scope, r.Method, r.Template)
	}
	return w.Flush()
}

func getCmdRules(gs *state.GlobalState) *cobra.Command {
	c := &cmdRules{gs: gs}

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Validate the rule file and list its rules",
		Long: `Validate the rule file and list its rules.

Every template is compiled; a broken rule fails the command with the rule's
name. Method names are shown the way calls are matched against them.`,
		Example: getExampleText(gs, `
  {{.}} rules --config rules.yaml
  {{.}} rules --config rules.yaml --yaml`[1:]),
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	rulesCmd.Flags().AddFlagSet(config.FlagSet())
	rulesCmd.Flags().BoolVar(&c.asYAML, "yaml", false, "print the rules as YAML")
	return rulesCmd
}
