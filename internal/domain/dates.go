package domain

import "time"

// DateOnly truncates one instant to midnight in its own location. Assignment
// and delivery stamps are business dates, not instants.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextBusinessDay returns the first day strictly after the given day that is
// neither Saturday nor Sunday.
func NextBusinessDay(after time.Time) time.Time {
	day := DateOnly(after).AddDate(0, 0, 1)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
