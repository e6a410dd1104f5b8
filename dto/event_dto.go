package dto

import "github.com/princinho/eventbackend/models"

type EventDTO struct {
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    models.Location `json:"location"`
	StartDate   float64         `json:"startDate"`
	EndDate     float64         `json:"endDate"`
}

type EventTypeDTO struct {
	Name  string       `json:"name"`
	Color models.Color `json:"color"`
}

type SettingsDTO struct {
	PaymentMode models.PaymentMode `json:"paymentMode"`
}
