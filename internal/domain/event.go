package domain

// Event is a calendar entry. Deleted events keep their row and are hidden from reads.
type Event struct {
	ID          int64
	Name        string
	Day         int
	Month       int
	Year        int
	IsReligious bool
	Deleted     bool
}

// NewEvent carries the caller supplied fields of an event to be created.
type NewEvent struct {
	Name        string
	Day         int
	Month       int
	Year        int
	IsReligious bool
}
