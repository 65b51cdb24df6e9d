package attendance

import (
	"github.com/gdg-garage/memorial-api/internal/models"
)

// ConfirmedTotal sums the guests of records that count against capacity.
func ConfirmedTotal(records []models.Attendance) int {
	total := 0
	for _, r := range records {
		if !r.Waitlisted {
			total += r.Guests()
		}
	}
	return total
}

// WaitlistedTotal sums the guests waiting for a free seat.
func WaitlistedTotal(records []models.Attendance) int {
	total := 0
	for _, r := range records {
		if r.Waitlisted {
			total += r.Guests()
		}
	}
	return total
}

// Remaining is the free capacity, never negative. Capacity can sit below
// the confirmed total after it was lowered; confirmed guests are never demoted.
func Remaining(capacity, confirmed int) int {
	if confirmed >= capacity {
		return 0
	}
	return capacity - confirmed
}

// ShouldWaitlist reports whether incoming guests would push the confirmed
// total past capacity.
func ShouldWaitlist(confirmed, incoming, capacity int) bool {
	return confirmed+incoming > capacity
}

// PlanPromotions walks the waitlist in the given order and returns the
// prefix that fits into remaining, plus what is left afterwards. The walk
// stops at the first record that does not fit; later, smaller records are
// not considered.
func PlanPromotions(waitlist []models.Attendance, remaining int) ([]models.Attendance, int) {
	var promoted []models.Attendance
	for _, r := range waitlist {
		if remaining == 0 {
			break
		}
		needed := r.Guests()
		if needed > remaining {
			break
		}
		promoted = append(promoted, r)
		remaining -= needed
	}
	return promoted, remaining
}
