// Package schedule holds the appointment rules: how a list splits into
// upcoming and past views, how edits are applied, and what a valid
// appointment looks like.
package schedule

import (
	"sort"
	"time"

	"pet-manager-api/internal/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

// Entry is an appointment as shown in one of the views.
type Entry struct {
	model.Appointment
	Status Status `json:"status"`
}

// At returns when the appointment happens in loc. ok is false when the
// date or time does not parse.
func At(a model.Appointment, loc *time.Location) (t time.Time, ok bool) {
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, a.Date+" "+a.Time, loc)
	return t, err == nil
}

type timed struct {
	a  model.Appointment
	at time.Time
}

// Upcoming returns the appointments not yet completed and not yet due,
// soonest first.
func Upcoming(list []model.Appointment, now time.Time, loc *time.Location) []Entry {
	var keep []timed
	for _, a := range list {
		if a.Completed {
			continue
		}
		at, ok := At(a, loc)
		if !ok || at.Before(now) {
			continue
		}
		keep = append(keep, timed{a, at})
	}
	sort.SliceStable(keep, func(i, j int) bool { return keep[i].at.Before(keep[j].at) })

	out := make([]Entry, len(keep))
	for i, k := range keep {
		out[i] = Entry{Appointment: k.a, Status: StatusUpcoming}
	}
	return out
}

// Past returns completed appointments followed by missed ones. Order within
// each group is the order of list.
func Past(list []model.Appointment, now time.Time, loc *time.Location) []Entry {
	out := []Entry{}
	for _, a := range list {
		if a.Completed {
			out = append(out, Entry{Appointment: a, Status: StatusCompleted})
			continue
		}
		if at, ok := At(a, loc); ok && at.Before(now) {
			out = append(out, Entry{Appointment: a, Status: StatusMissed})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Completed && !out[j].Completed
	})
	return out
}
