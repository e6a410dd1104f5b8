package models

type PaymentMode string

const (
	PaymentModeFree  PaymentMode = "Free"
	PaymentModeCosts PaymentMode = "Costs"
)

type Settings struct {
	ID          string      `bson:"_id" json:"id"`
	PaymentMode PaymentMode `bson:"paymentMode" json:"paymentMode"`
}

type Image struct {
	ID    string `bson:"_id" json:"id"`
	Image string `bson:"image" json:"image"`
}
