package model

type Event struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Venue     string `json:"venue,omitempty"`
	MaxGuests int    `json:"max_guests"`
	Status    string `json:"status,omitempty"`
}

type EventSummary struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date,omitempty"`
	MaxGuests int    `json:"max_guests,omitempty"`
}

type VendorSummary struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type SendEmailEventMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
