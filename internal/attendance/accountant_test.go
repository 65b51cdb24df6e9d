package attendance

import (
	"testing"

	"github.com/gdg-garage/memorial-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func rec(id string, plusOne, waitlisted bool) models.Attendance {
	return models.Attendance{ID: id, PlusOne: plusOne, Waitlisted: waitlisted}
}

func TestTotals(t *testing.T) {
	records := []models.Attendance{
		rec("a", false, false),
		rec("b", true, false),
		rec("c", true, true),
		rec("d", false, true),
		rec("e", false, true),
	}

	assert.Equal(t, 3, ConfirmedTotal(records))
	assert.Equal(t, 4, WaitlistedTotal(records))
	assert.Equal(t, 0, ConfirmedTotal(nil))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 5, Remaining(10, 5))
	assert.Equal(t, 0, Remaining(10, 10))
	// Capacity lowered below what is already confirmed.
	assert.Equal(t, 0, Remaining(3, 7))
	assert.Equal(t, 0, Remaining(0, 0))
}

func TestShouldWaitlist(t *testing.T) {
	tests := []struct {
		confirmed, incoming, capacity int
		want                          bool
	}{
		{0, 1, 2, false},
		{1, 1, 2, false},
		{1, 2, 2, true},
		{2, 1, 2, true},
		{0, 1, 0, true},
		{59, 1, 60, false},
		{59, 2, 60, true},
	}
	for _, tt := range tests {
		got := ShouldWaitlist(tt.confirmed, tt.incoming, tt.capacity)
		assert.Equal(t, tt.want, got, "confirmed=%d incoming=%d capacity=%d", tt.confirmed, tt.incoming, tt.capacity)
	}
}

func TestPlanPromotions(t *testing.T) {
	t.Run("HeadDoesNotFit", func(t *testing.T) {
		waitlist := []models.Attendance{rec("w1", true, true), rec("w2", false, true)}
		promoted, left := PlanPromotions(waitlist, 1)
		assert.Empty(t, promoted, "w2 must not jump ahead of w1")
		assert.Equal(t, 1, left)
	})

	t.Run("PrefixFits", func(t *testing.T) {
		waitlist := []models.Attendance{
			rec("w1", false, true),
			rec("w2", true, true),
			rec("w3", true, true),
			rec("w4", false, true),
		}
		promoted, left := PlanPromotions(waitlist, 4)
		if assert.Len(t, promoted, 2) {
			assert.Equal(t, "w1", promoted[0].ID)
			assert.Equal(t, "w2", promoted[1].ID)
		}
		assert.Equal(t, 1, left)
	})

	t.Run("StopsAtZero", func(t *testing.T) {
		waitlist := []models.Attendance{rec("w1", true, true), rec("w2", false, true)}
		promoted, left := PlanPromotions(waitlist, 2)
		assert.Len(t, promoted, 1)
		assert.Equal(t, 0, left)
	})

	t.Run("NothingRemaining", func(t *testing.T) {
		promoted, left := PlanPromotions([]models.Attendance{rec("w1", false, true)}, 0)
		assert.Empty(t, promoted)
		assert.Equal(t, 0, left)
	})
}
