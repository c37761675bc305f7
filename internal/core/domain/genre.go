package domain

// Genre classifies movies. Name uniqueness is enforced by the genre service and
// backed by a unique index in the store.
type Genre struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// GenreRef is the copy of a genre embedded in a movie.
type GenreRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Ref returns the embeddable snapshot of g.
func (g *Genre) Ref() GenreRef {
	return GenreRef{ID: g.ID, Name: g.Name}
}
