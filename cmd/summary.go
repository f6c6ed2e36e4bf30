package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/liuxd6825/steplog/steps"
	"github.com/liuxd6825/steplog/ui/console"
)

// printSummary lists the recorded steps as a tree followed by a count of
// passed and failed steps.
func printSummary(con *console.Console, all []steps.Step) {
	if len(all) == 0 {
		return
	}
	width, _ := con.TermWidth()

	var sb strings.Builder
	failed := 0
	for _, s := range all {
		indent := strings.Repeat("  ", s.Depth+1)
		mark := con.Passed("✓")
		if s.Failed() {
			mark = con.Failed("✗")
			failed++
		}
		title := console.Truncate(s.Title, width-len(indent)-12)
		fmt.Fprintf(&sb, "%s%s %s %s\n", indent, mark, title, con.Faint(formatDuration(s.Duration())))
	}

	summary := fmt.Sprintf("\n  %d steps, %d passed", len(all), len(all)-failed)
	if failed > 0 {
		summary += ", " + con.Failed(fmt.Sprintf("%d failed", failed))
	}
	con.Print("\n" + sb.String() + summary + "\n")
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "(<1ms)"
	}
	return fmt.Sprintf("(%s)", d.Round(time.Millisecond))
}
