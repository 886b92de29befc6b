// Package earnings converts salary and elapsed time into money.
package earnings

// A salaried year is 40 hours x 52 weeks.
const annualWorkHours = 40 * 52

// HourlyRate derives the hourly wage from an annual salary. Zero or
// negative salaries yield zero, never an error.
func HourlyRate(salary float64) float64 {
	if salary <= 0 {
		return 0
	}
	return salary / annualWorkHours
}

// ForDuration returns the pay for seconds of elapsed time at the given
// annual salary. Accrual is not gated on the work window; callers record
// the window membership separately.
func ForDuration(salary float64, seconds int64) float64 {
	rate := HourlyRate(salary)
	if rate == 0 || seconds <= 0 {
		return 0
	}
	return rate * float64(seconds) / 3600
}
