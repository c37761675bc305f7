package domain

// Customer is a person who rents movies.
type Customer struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	IsGold bool   `json:"isGold"`
}

// Snapshot copies the customer fields a rental keeps.
func (c *Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{ID: c.ID, Name: c.Name, Phone: c.Phone}
}
