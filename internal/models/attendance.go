package models

import (
	"time"
)

type Attendance struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	MemorialID uint      `gorm:"index:idx_attendance_memorial_waitlist;not null" json:"-"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `gorm:"not null" json:"email"`
	PlusOne    bool      `json:"plusOne"`
	Allergies  *string   `json:"allergies"`
	Notes      *string   `json:"notes"`
	Waitlisted bool      `gorm:"index:idx_attendance_memorial_waitlist" json:"waitlisted"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

// Guests is the number of seats the RSVP occupies.
func (a Attendance) Guests() int {
	if a.PlusOne {
		return 2
	}
	return 1
}
