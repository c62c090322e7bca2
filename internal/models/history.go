package models

// TimeRange is the window shown by the hourly history chart.
type TimeRange int

const (
	// TimeRange6Hours shows the last 6 hours.
	TimeRange6Hours TimeRange = iota
	// TimeRange24Hours shows the last 24 hours.
	TimeRange24Hours
	// TimeRange7Days shows the last 7 days.
	TimeRange7Days
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange6Hours:
		return "6 Hours"
	case TimeRange24Hours:
		return "24 Hours"
	case TimeRange7Days:
		return "7 Days"
	default:
		return "Unknown"
	}
}

// Hours returns the length of the window in hours.
func (t TimeRange) Hours() int {
	switch t {
	case TimeRange6Hours:
		return 6
	case TimeRange7Days:
		return 7 * 24
	default:
		return 24
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 3
}
