package model

// Customer is a roster entry for a wallet owner.
type Customer struct {
	ID      string `json:"id" yaml:"id"`
	Balance int    `json:"balance" yaml:"balance"`
}

// Roster lists the entities created at start-up.
type Roster struct {
	Cabs      []string   `json:"cabs" yaml:"cabs"`
	Customers []Customer `json:"customers" yaml:"customers"`
}
