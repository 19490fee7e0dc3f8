package schedule

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"pet-manager-api/internal/model"
)

var ErrNotFound = errors.New("appointment not found")

// The functions below never modify the slice they are given.

func MarkComplete(list []model.Appointment, id string) ([]model.Appointment, bool) {
	i := index(list, id)
	if i < 0 {
		return list, false
	}
	out := slices.Clone(list)
	out[i].Completed = true
	return out, true
}

func Delete(list []model.Appointment, id string) ([]model.Appointment, bool) {
	i := index(list, id)
	if i < 0 {
		return list, false
	}
	out := make([]model.Appointment, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), true
}

// Upsert validates a and then either replaces the entry with the same id or
// appends a new one. Edits keep the stored completion flag; new entries
// start not completed and get an id when they have none. On a validation
// error list is returned unchanged.
func Upsert(list []model.Appointment, a model.Appointment) ([]model.Appointment, model.Appointment, error) {
	if err := Validate(a); err != nil {
		return list, model.Appointment{}, err
	}
	a = trimmed(a)

	if i := index(list, a.ID); a.ID != "" && i >= 0 {
		a.Completed = list[i].Completed
		out := slices.Clone(list)
		out[i] = a
		return out, a, nil
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Completed = false
	out := make([]model.Appointment, 0, len(list)+1)
	out = append(out, list...)
	return append(out, a), a, nil
}

func index(list []model.Appointment, id string) int {
	return slices.IndexFunc(list, func(a model.Appointment) bool { return a.ID == id })
}
