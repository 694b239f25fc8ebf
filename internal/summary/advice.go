package summary

import (
	"fmt"
	"math"
)

// rule pairs a condition with the advice it produces. Rules are tried in
// order and the first match wins; the last rule always matches.
type rule struct {
	name   string
	when   func(day) bool
	advice func(day) string
}

func say(text string) func(day) string {
	return func(day) string { return text }
}

var adviceRules = []rule{
	{
		name:   "habits-only",
		when:   func(d day) bool { return d.total() == 0 && d.habitChecks > 0 },
		advice: say("Great start on habits! Now add at least one block for tomorrow in the planner."),
	},
	{
		name:   "empty-plan",
		when:   func(d day) bool { return d.total() == 0 },
		advice: say("The planner is empty today. Write down your 3 most important tasks and block time for them."),
	},
	{
		name:   "sprint-done",
		when:   func(d day) bool { return d.progress() >= 0.95 },
		advice: say("Legend level! Today's sprint is done, so don't forget to reward yourself."),
	},
	{
		name:   "strong-but-late",
		when:   func(d day) bool { return d.progress() >= 0.6 && len(d.overdue) > 0 },
		advice: say("Good progress, but close the overdue block and wrap up the day."),
	},
	{
		name:   "strong",
		when:   func(d day) bool { return d.progress() >= 0.6 },
		advice: say("Nice rhythm. Keep it up and finish the remaining block(s)."),
	},
	{
		name: "many-skipped",
		when: func(d day) bool {
			return len(d.skipped) >= max(1, int(math.Ceil(float64(d.total())/2)))
		},
		advice: say("Many tasks were skipped today. Write down why and clear the blockers for tomorrow's important ones."),
	},
	{
		name: "in-progress",
		when: func(d day) bool { return len(d.inProgress) > 0 },
		advice: func(d day) string {
			return fmt.Sprintf("Finish the focus: try to wrap up %q within 25 minutes.", d.inProgress[0].Title)
		},
	},
	{
		name: "overdue",
		when: func(d day) bool { return len(d.overdue) > 0 },
		advice: func(d day) string {
			return fmt.Sprintf("Close the overdue %q block first, then start anything else.", d.overdue[0].Title)
		},
	},
	{
		name:   "fallback",
		when:   func(day) bool { return true },
		advice: say("There is still time today. Pick the block with the most value and start focusing."),
	},
}

func advise(d day) string {
	_, text := matchRule(d)
	return text
}

// matchRule returns the name of the first matching rule with its advice.
func matchRule(d day) (string, string) {
	for _, r := range adviceRules {
		if r.when(d) {
			return r.name, r.advice(d)
		}
	}
	return "", ""
}
