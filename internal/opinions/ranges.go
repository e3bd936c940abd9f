package opinions

import "time"

// Range is an inclusive window of file dates searched together
type Range struct {
	Begin time.Time
	End   time.Time
}

// MonthRanges returns one range per calendar month of year
func MonthRanges(year int) []Range {
	ranges := make([]Range, 0, 12)
	for m := time.January; m <= time.December; m++ {
		begin := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		ranges = append(ranges, Range{Begin: begin, End: begin.AddDate(0, 1, -1)})
	}
	return ranges
}

// Days returns the number of days in the range
func (r Range) Days() int {
	return int(r.End.Sub(r.Begin)/(24*time.Hour)) + 1
}

// Split divides the range into two halves; the first is the longer one for odd lengths
func (r Range) Split() (Range, Range) {
	mid := r.Begin.AddDate(0, 0, (r.Days()-1)/2)
	return Range{Begin: r.Begin, End: mid}, Range{Begin: mid.AddDate(0, 0, 1), End: r.End}
}

func (r Range) String() string {
	return r.Begin.Format("2006-01-02") + ".." + r.End.Format("2006-01-02")
}
