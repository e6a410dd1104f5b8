package models

type Color struct {
	R int     `bson:"r" json:"r"`
	G int     `bson:"g" json:"g"`
	B int     `bson:"b" json:"b"`
	A float64 `bson:"a" json:"a"`
}

type EventType struct {
	ID    string `bson:"_id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Color Color  `bson:"color" json:"color"`
}

type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

type Location struct {
	Address     string      `bson:"address" json:"address"`
	Coordinates Coordinates `bson:"coordinates" json:"coordinates"`
}

// Event dates are epoch milliseconds, stored exactly as submitted.
type Event struct {
	ID          string   `bson:"_id" json:"id"`
	Type        string   `bson:"type" json:"type"`
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description" json:"description"`
	Location    Location `bson:"location" json:"location"`
	StartDate   float64  `bson:"startDate" json:"startDate"`
	EndDate     float64  `bson:"endDate" json:"endDate"`
}
