package model

type User struct {
	ID           int64  `db:"user_id"`
	Email        string `db:"EmailAddress"`
	PasswordHash string `db:"password"`
}

type Category string

const (
	Vaccination Category = "Vaccination"
	Grooming    Category = "Grooming"
	ClinicVisit Category = "Clinic Visit"
)

// Categories lists the accepted values in display order.
var Categories = []Category{Vaccination, Grooming, ClinicVisit}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Appointment is a pet care visit. Date is YYYY-MM-DD and Time is HH:MM,
// both read in the configured appointment time zone.
type Appointment struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Subtitle  string   `json:"subtitle"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Location  string   `json:"location"`
	Category  Category `json:"category"`
	Completed bool     `json:"completed"`
	Remind    bool     `json:"remind"`
}
