// Package render formats balancing results for chat-style output.
package render

import (
	"fmt"
	"strings"

	"github.com/DoyleJ11/lol-custom-teams/internal/engine"
)

var teamLabels = [2]string{"Team A", "Team B"}

// Text renders a report the way the queue announces finished teams.
func Text(rep engine.Report) string {
	var b strings.Builder
	for t, team := range rep.Teams {
		if t > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (sum LP: %d)\n", teamLabels[t], team.RatingSum)
		for _, s := range team.Assignment.Slots {
			fmt.Fprintf(&b, "- %s: %s (%d LP)\n", s.Role, s.Player.Name(), s.Player.Rating)
		}
	}
	fmt.Fprintf(&b, "\nLP diff: %d\n", rep.RatingDiff)

	if n := rep.Violations(); n > 0 {
		fmt.Fprintf(&b, "Note: %d role preference violation(s) to make teams valid.\n", n)
	}
	for _, r := range rep.Relaxations {
		fmt.Fprintf(&b, "  * %s\n", r)
	}
	return b.String()
}
