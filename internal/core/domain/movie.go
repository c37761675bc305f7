package domain

const MaxDailyRentalRate = 255

// Movie is a rentable title. NumberInStock is moved only by checkout and return.
type Movie struct {
	ID              string   `json:"_id"`
	Title           string   `json:"title"`
	Genre           GenreRef `json:"genre"`
	NumberInStock   int      `json:"numberInStock"`
	DailyRentalRate int      `json:"dailyRentalRate"`
}

// InStock reports whether at least one copy can be checked out.
func (m *Movie) InStock() bool {
	return m.NumberInStock > 0
}

// Snapshot copies the fields a rental keeps about m, including the rate in
// force right now.
func (m *Movie) Snapshot() MovieSnapshot {
	return MovieSnapshot{ID: m.ID, Title: m.Title, DailyRentalRate: m.DailyRentalRate}
}
