package dto

import (
	"testing"

	"github.com/princinho/eventbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Event(t *testing.T) {
	input := Input{
		"type":        "type-id",
		"title":       "Camping",
		"description": "Under the stars",
		"location": map[string]any{
			"address":     "Forest road 1",
			"coordinates": map[string]any{"latitude": 55.5, "longitude": 12.25},
		},
		"startDate": 100.0,
		"endDate":   200.0,
	}

	var event EventDTO
	require.NoError(t, Decode(input, &event))
	assert.Equal(t, EventDTO{
		Type:        "type-id",
		Title:       "Camping",
		Description: "Under the stars",
		Location: models.Location{
			Address:     "Forest road 1",
			Coordinates: models.Coordinates{Latitude: 55.5, Longitude: 12.25},
		},
		StartDate: 100,
		EndDate:   200,
	}, event)
}

func TestParse(t *testing.T) {
	input, ok := Parse(`{"token":"abc"}`)
	require.True(t, ok)
	assert.Equal(t, "abc", input["token"])

	for _, header := range []string{"", "abc", "null", "[1,2]", `"token"`} {
		_, ok := Parse(header)
		assert.False(t, ok, "header %q", header)
	}
}
