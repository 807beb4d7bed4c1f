package domain

import "time"

// User is a renter. PlateNumber may be empty when the user has not registered
// a vehicle; queue promotion copies it onto the created rental.
type User struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PlateNumber string
	CreatedAt   time.Time
}

// DisplayName is the name shown on waitlists and rental histories.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Company owns listings and is the counterparty on every rental.
type Company struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
