package summary

import (
	"fmt"
	"math"
	"strings"
)

func render(d day, advice string) string {
	var b strings.Builder

	b.WriteString("## Today's result\n\n")
	fmt.Fprintf(&b, "- Tasks: %d/%d (%d%%)\n", len(d.completed), d.total(), int(math.Round(d.progress()*100)))
	sign := ""
	if d.delta() >= 0 {
		sign = "+"
	}
	fmt.Fprintf(&b, "- Coins: +%d / -%d (%s%d balance change)\n", d.earned, d.spent, sign, d.delta())
	fmt.Fprintf(&b, "- Habits: %d check-ins\n", d.habitChecks)
	if d.topStreak != nil && d.topStreak.BestStreak > 0 {
		fmt.Fprintf(&b, "- Longest streak: %s (%d days)\n", d.topStreak.Title, d.topStreak.BestStreak)
	}

	b.WriteString("\n## Wins\n\n")
	if len(d.completed) == 0 {
		b.WriteString("- No task completed yet today. Set aside an hour for deep work.\n")
	}
	for i, block := range d.completed {
		if i == maxHighlights {
			break
		}
		fmt.Fprintf(&b, "- %s (+%d coin)\n", block.Title, block.Reward)
	}
	if len(d.habitTitles) > 0 {
		fmt.Fprintf(&b, "- Habits: %s\n", strings.Join(d.habitTitles, ", "))
	}

	b.WriteString("\n## Next step\n\n")
	fmt.Fprintf(&b, "- %s\n", advice)
	switch {
	case d.next != nil:
		fmt.Fprintf(&b, "- Next block: %s - %s\n", d.next.Start.Format("15:04"), d.next.Title)
	case d.total() == 0:
		b.WriteString("- Add at least one strategic block to the planner.\n")
	}
	if d.delta() < 0 {
		b.WriteString("- Spending outpaced earnings today. Finish a high-value block tomorrow to earn it back.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
