package date

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// LastYears returns the range covering the given number of years back from today.
func LastYears(years int) Range {
	to := Today()
	return Range{From: to.AddYears(-years), To: to}
}

// Contains return true if date is included in the range (boundaries included).
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns the number of whole days covered by the range.
func (r Range) Days() int { return r.To.Sub(r.From) }
