package schedule

import (
	"sort"
	"strings"
	"time"

	"pet-manager-api/internal/model"
)

const msgRequired = "This field is required."

// ValidationErrors maps a field name to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + v[k]
	}
	return "invalid appointment: " + strings.Join(parts, "; ")
}

// Validate returns ValidationErrors when any field is unusable, nil otherwise.
func Validate(a model.Appointment) error {
	errs := ValidationErrors{}
	required := map[string]string{
		"title":    a.Title,
		"subtitle": a.Subtitle,
		"date":     a.Date,
		"time":     a.Time,
		"location": a.Location,
		"category": string(a.Category),
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			errs[field] = msgRequired
		}
	}

	if _, ok := errs["date"]; !ok {
		if _, err := time.Parse(dateLayout, strings.TrimSpace(a.Date)); err != nil {
			errs["date"] = "Date must be in YYYY-MM-DD format."
		}
	}
	if _, ok := errs["time"]; !ok {
		if _, err := time.Parse(timeLayout, strings.TrimSpace(a.Time)); err != nil {
			errs["time"] = "Time must be in HH:MM format."
		}
	}
	if _, ok := errs["category"]; !ok && !a.Category.Valid() {
		errs["category"] = "Category must be one of " + categoryList() + "."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func trimmed(a model.Appointment) model.Appointment {
	a.Title = strings.TrimSpace(a.Title)
	a.Subtitle = strings.TrimSpace(a.Subtitle)
	a.Date = strings.TrimSpace(a.Date)
	a.Time = strings.TrimSpace(a.Time)
	a.Location = strings.TrimSpace(a.Location)
	return a
}

func categoryList() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
