package cmd

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/liuxd6825/steplog/cmd/state"
)

func exactArgsWithMsg(n int, msg string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("accepts %d arg(s), received %d: %s", n, len(args), msg)
		}
		return nil
	}
}

// getExampleText renders the example text of a command with the binary name.
func getExampleText(gs *state.GlobalState, tpl string) string {
	var exampleText bytes.Buffer
	exampleTemplate := template.Must(template.New("").Parse(tpl))

	if err := exampleTemplate.Execute(&exampleText, gs.BinaryName); err != nil {
		gs.Logger.WithError(err).Error("Error during the execution of the example template")
		return tpl
	}

	return exampleText.String()
}
