package models

import (
	"gorm.io/gorm"
)

// Memorial is the ceremony an attendance list belongs to.
type Memorial struct {
	gorm.Model
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Name     string `json:"name"`
	Capacity *int   `json:"capacity"`
}

// EffectiveCapacity returns the memorial's own capacity, or def when unset.
func (m Memorial) EffectiveCapacity(def int) int {
	if m.Capacity != nil {
		return *m.Capacity
	}
	return def
}
