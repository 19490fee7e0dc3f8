package schedule_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"pet-manager-api/internal/model"
	"pet-manager-api/internal/schedule"
)

var now = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

func appt(id, date, tm string, completed bool) model.Appointment {
	return model.Appointment{
		ID:        id,
		Title:     "appt " + id,
		Subtitle:  "sub",
		Date:      date,
		Time:      tm,
		Location:  "Happy Paws Clinic",
		Category:  model.Vaccination,
		Completed: completed,
	}
}

func ids(entries []schedule.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestPastAndFutureSplit(t *testing.T) {
	list := []model.Appointment{
		appt("past", "2025-04-10", "13:30", false),
		appt("future", "2025-04-20", "10:00", false),
	}

	up := schedule.Upcoming(list, now, time.UTC)
	if len(up) != 1 || up[0].ID != "future" || up[0].Status != schedule.StatusUpcoming {
		t.Fatalf("upcoming: %+v", up)
	}

	past := schedule.Past(list, now, time.UTC)
	if len(past) != 1 || past[0].ID != "past" {
		t.Fatalf("past: %+v", past)
	}
	if past[0].Status != schedule.StatusMissed {
		t.Errorf("expected missed, got %s", past[0].Status)
	}
}

func TestUpcomingSoonestFirst(t *testing.T) {
	list := []model.Appointment{
		appt("c", "2025-04-25", "11:00", false),
		appt("a", "2025-04-15", "12:00", false), // exactly now counts as upcoming
		appt("b", "2025-04-18", "15:30", false),
		appt("done", "2025-04-22", "09:00", true),
	}
	got := fmt.Sprint(ids(schedule.Upcoming(list, now, time.UTC)))
	if got != "[a b c]" {
		t.Errorf("got %s", got)
	}
}

func TestPastCompletedBeforeMissed(t *testing.T) {
	list := []model.Appointment{
		appt("m1", "2025-04-10", "13:30", false),
		appt("c1", "2025-04-13", "14:00", true),
		appt("m2", "2025-04-01", "09:00", false),
		appt("c2", "2025-05-01", "09:00", true), // completed ahead of time is still past
		appt("future", "2025-04-30", "09:00", false),
	}
	past := schedule.Past(list, now, time.UTC)
	if got := fmt.Sprint(ids(past)); got != "[c1 c2 m1 m2]" {
		t.Fatalf("got %s", got)
	}
	want := []schedule.Status{schedule.StatusCompleted, schedule.StatusCompleted, schedule.StatusMissed, schedule.StatusMissed}
	for i, e := range past {
		if e.Status != want[i] {
			t.Errorf("%s: status %s, want %s", e.ID, e.Status, want[i])
		}
	}
}

func TestUnparseableDatesDropOut(t *testing.T) {
	list := []model.Appointment{
		appt("bad", "someday", "noon", false),
		appt("bad-done", "someday", "noon", true),
	}
	if up := schedule.Upcoming(list, now, time.UTC); len(up) != 0 {
		t.Errorf("upcoming: %+v", up)
	}
	past := schedule.Past(list, now, time.UTC)
	if len(past) != 1 || past[0].ID != "bad-done" {
		t.Errorf("past: %+v", past)
	}
}

func TestTimeZoneMatters(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 10:00 in New York is 14:00 UTC, after now
	list := []model.Appointment{appt("x", "2025-04-15", "10:00", false)}
	if up := schedule.Upcoming(list, now, ny); len(up) != 1 {
		t.Errorf("expected upcoming in New York, got %+v", up)
	}
	if up := schedule.Upcoming(list, now, time.UTC); len(up) != 0 {
		t.Errorf("expected past in UTC, got %+v", up)
	}
}

func TestValidate(t *testing.T) {
	valid := appt("1", "2025-04-20", "10:00", false)

	tests := []struct {
		name   string
		mutate func(*model.Appointment)
		field  string
	}{
		{"empty title", func(a *model.Appointment) { a.Title = "" }, "title"},
		{"blank subtitle", func(a *model.Appointment) { a.Subtitle = "   " }, "subtitle"},
		{"empty location", func(a *model.Appointment) { a.Location = "" }, "location"},
		{"empty date", func(a *model.Appointment) { a.Date = "" }, "date"},
		{"bad date", func(a *model.Appointment) { a.Date = "04/20/2025" }, "date"},
		{"bad time", func(a *model.Appointment) { a.Time = "10am" }, "time"},
		{"empty category", func(a *model.Appointment) { a.Category = "" }, "category"},
		{"unknown category", func(a *model.Appointment) { a.Category = "Surgery" }, "category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			err := schedule.Validate(a)
			var verrs schedule.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if _, ok := verrs[tt.field]; !ok || len(verrs) != 1 {
				t.Errorf("expected only %s to fail, got %v", tt.field, verrs)
			}
		})
	}

	if err := schedule.Validate(valid); err != nil {
		t.Errorf("valid appointment rejected: %v", err)
	}

	err := schedule.Validate(model.Appointment{})
	var verrs schedule.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 6 {
		t.Fatalf("expected six field errors, got %v", err)
	}
	if verrs["title"] != "This field is required." {
		t.Errorf("title message: %q", verrs["title"])
	}
}

func TestUpsertRejectsBadCategoryWithoutMutation(t *testing.T) {
	orig := []model.Appointment{appt("1", "2025-04-20", "10:00", false)}

	edit := orig[0]
	edit.Category = "Surgery"
	next, _, err := schedule.Upsert(orig, edit)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if orig[0].Category != model.Vaccination || next[0].Category != model.Vaccination {
		t.Errorf("list changed on failed edit: %+v", next)
	}
}

func TestUpsert(t *testing.T) {
	orig := []model.Appointment{appt("1", "2025-04-20", "10:00", true)}

	created := appt("", "2025-04-22", "09:00", true)
	next, saved, err := schedule.Upsert(orig, created)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if saved.ID == "" || saved.Completed {
		t.Errorf("new entry should get an id and start open: %+v", saved)
	}
	if len(next) != 2 || len(orig) != 1 {
		t.Fatalf("lengths: next=%d orig=%d", len(next), len(orig))
	}

	edit := appt("1", "2025-04-21", "11:00", false)
	edit.Title = "  Vet Check-up  "
	edited, saved, err := schedule.Upsert(next, edit)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !saved.Completed {
		t.Error("edit dropped completion flag")
	}
	if saved.Title != "Vet Check-up" {
		t.Errorf("title not trimmed: %q", saved.Title)
	}
	if edited[0].Date != "2025-04-21" || next[0].Date != "2025-04-20" {
		t.Errorf("edit applied in place: edited=%+v next=%+v", edited[0], next[0])
	}
}

func TestMarkCompleteAndDelete(t *testing.T) {
	orig := []model.Appointment{
		appt("1", "2025-04-20", "10:00", false),
		appt("2", "2025-04-21", "10:00", false),
	}

	done, ok := schedule.MarkComplete(orig, "2")
	if !ok || !done[1].Completed || orig[1].Completed {
		t.Errorf("mark complete: ok=%v done=%+v orig=%+v", ok, done[1], orig[1])
	}
	if _, ok := schedule.MarkComplete(orig, "nope"); ok {
		t.Error("mark complete on missing id reported success")
	}

	left, ok := schedule.Delete(orig, "1")
	if !ok || len(left) != 1 || left[0].ID != "2" || len(orig) != 2 {
		t.Errorf("delete: ok=%v left=%+v", ok, left)
	}
	if _, ok := schedule.Delete(orig, "nope"); ok {
		t.Error("delete on missing id reported success")
	}
}

func TestMemoryStore(t *testing.T) {
	seed := appt("seed", "2025-04-20", "10:00", false)
	m := schedule.NewMemoryStore(seed)

	if l := m.List(1); len(l) != 1 || l[0].ID != "seed" {
		t.Fatalf("seeded list: %+v", l)
	}

	a, err := m.Create(1, appt("ignored", "2025-04-22", "09:00", false))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "ignored" {
		t.Error("create kept caller id")
	}
	if l := m.List(2); len(l) != 1 {
		t.Errorf("user 2 sees user 1's entries: %+v", l)
	}

	if _, err := m.Update(1, "missing", a); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("update missing: %v", err)
	}
	a.Title = "Grooming"
	if got, err := m.Update(1, a.ID, a); err != nil || got.Title != "Grooming" {
		t.Errorf("update: %+v %v", got, err)
	}
	if got, err := m.Complete(1, a.ID); err != nil || !got.Completed {
		t.Errorf("complete: %+v %v", got, err)
	}
	if err := m.Remove(1, a.ID); err != nil {
		t.Errorf("remove: %v", err)
	}
	if err := m.Remove(1, a.ID); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("second remove: %v", err)
	}

	l := m.List(1)
	l[0].Title = "mutated"
	if m.List(1)[0].Title == "mutated" {
		t.Error("List exposes internal slice")
	}
}

func TestMemoryStoreConcurrentCreates(t *testing.T) {
	m := schedule.NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Create(7, appt("", "2025-04-20", "10:00", false)); err != nil {
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := len(m.List(7)); n != 50 {
		t.Errorf("expected 50 entries, got %d", n)
	}
}
