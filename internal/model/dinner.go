package model

import "time"

// Dinner is the planned evening meal for one calendar date. Exactly one row
// exists per date; rows are created lazily when a week is first viewed.
type Dinner struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"` // ISO calendar date, YYYY-MM-DD
	MealID      *int64    `json:"meal_id"`
	CreatedAt   time.Time `json:"created_at"`
	Notes       *string   `json:"notes"`
	ExtraGuests int       `json:"extra_guests"`
}

// DinnerDetail is a dinner joined with its meal (if planned) and the
// members attending.
type DinnerDetail struct {
	Dinner
	Meal       *Meal    `json:"meal"`
	Attendance []Member `json:"attendance"`
}

// Attending reports whether the member is on this dinner's attendance list.
func (d *DinnerDetail) Attending(m Member) bool {
	for _, a := range d.Attendance {
		if a == m {
			return true
		}
	}
	return false
}
