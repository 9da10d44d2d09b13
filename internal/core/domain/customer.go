package domain

// Application is a loan application summary attached to a customer record.
// Reference data only; never mutated by the triage core.
type Application struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	LastUpdate string  `json:"lastUpdate"`
}

// Customer is an end user of the chat channel.
type Customer struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	Applications []Application `json:"applications"`
}
