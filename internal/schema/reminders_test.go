package schema

import "testing"

func TestReadReminders(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		ok      bool
		enabled bool
		tasks   int
	}{
		{"not json", `nope`, false, false, 0},
		{"no plan", `{"notificationsEnabled":true}`, false, false, 0},
		{"plan not array", `{"weeklyPlan":{}}`, false, false, 0},
		{"flag missing", `{"weeklyPlan":[{"id":"a","title":"A"}]}`, true, true, 1},
		{"flag false", `{"weeklyPlan":[],"notificationsEnabled":false}`, true, false, 0},
		{"flag garbage", `{"weeklyPlan":[],"notificationsEnabled":"maybe"}`, true, true, 0},
		{"non-object tasks dropped", `{"weeklyPlan":[1,"x",{"title":"B"}]}`, true, true, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ReadReminders([]byte(tc.raw), fixedNow())
			if ok != tc.ok {
				t.Fatalf("ok=%v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if got.Enabled != tc.enabled || len(got.Plan) != tc.tasks {
				t.Fatalf("unexpected reminders: %+v", got)
			}
		})
	}
}

func TestReadRemindersPositionalIDsAreStable(t *testing.T) {
	raw := []byte(`{"weeklyPlan":[{"title":"A","hour":9},{"title":"B","hour":10}]}`)
	first, _ := ReadReminders(raw, fixedNow())
	second, _ := ReadReminders(raw, fixedNow())
	if first.Plan[0].ID == "" || first.Plan[0].ID == first.Plan[1].ID {
		t.Fatalf("expected distinct ids: %+v", first.Plan)
	}
	if first.Plan[1].ID != second.Plan[1].ID {
		t.Fatal("ids must be stable across reads")
	}
}
