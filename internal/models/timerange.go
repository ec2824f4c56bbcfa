package models

// TimeRange bounds a list query on timestamp (milliseconds since epoch).
// Both ends are inclusive; a zero bound is open.
type TimeRange struct {
	Start int64
	End   int64
}

// Contains reports whether ts falls inside the range
func (r TimeRange) Contains(ts int64) bool {
	if r.Start != 0 && ts < r.Start {
		return false
	}
	if r.End != 0 && ts > r.End {
		return false
	}
	return true
}

// IsOpen reports whether the range applies no bound at all
func (r TimeRange) IsOpen() bool {
	return r.Start == 0 && r.End == 0
}
