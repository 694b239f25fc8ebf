package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandeepkv93/focusflow/internal/model"
)

// Reminders is the slice of a persisted blob the reminder watcher reads.
type Reminders struct {
	// Enabled is false only when the blob says so explicitly.
	Enabled bool
	Plan    []model.Task
}

// ReadReminders decodes the notification flag and the weekly plan without
// normalizing the rest of the blob. ok is false when the blob is not an
// object or its weeklyPlan is not an array. Tasks stored without an id get a
// positional one, stable for as long as the plan order is.
func ReadReminders(raw []byte, now time.Time) (Reminders, bool) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return Reminders{}, false
	}
	elems, ok := array(top["weeklyPlan"])
	if !ok {
		return Reminders{}, false
	}
	n := 0
	positional := func() string {
		n++
		return fmt.Sprintf("unsaved-%d", n)
	}
	out := Reminders{
		Enabled: true,
		Plan:    normalizeTasks(objects[rawTask](elems), now, positional),
	}
	var f flag
	if err := json.Unmarshal(top["notificationsEnabled"], &f); err == nil {
		out.Enabled = f.or(true)
	}
	return out, true
}
