package dto

import (
	"encoding/json"
	"fmt"
)

// Input is a request body before validation. Numbers are float64, objects are
// map[string]any, exactly as encoding/json produces them.
type Input = map[string]any

// Decode converts a validated input into its typed form.
func Decode(input Input, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode input: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

// Parse reads a JSON header value. It reports false for anything that is not
// a JSON object.
func Parse(header string) (Input, bool) {
	var input Input
	if err := json.Unmarshal([]byte(header), &input); err != nil || input == nil {
		return nil, false
	}
	return input, true
}
