package validation

import (
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 5
	MaxPasswordLength = 32
)

// FieldValidator checks single values.
type FieldValidator interface {
	Color(color any) error
	Password(password any) bool
	Email(email any) bool
	Image(image any) bool
	// NotPastDeadline passes when date is not after deadline. Zero times fail.
	NotPastDeadline(date, deadline time.Time) bool
}

type Fields struct {
	syntax *validator.Validate
}

func NewFields() *Fields {
	return &Fields{syntax: validator.New()}
}

type channel struct {
	name  string
	value any
	max   float64
	whole bool
}

func (f *Fields) Color(color any) error {
	if isEmpty(color) {
		return shapeError("No color")
	}
	c, ok := asObject(color)
	if !ok || !hasExactly(c, "r", "g", "b", "a") {
		return shapeError("Does not specify exactly the required fields")
	}

	channels := []channel{
		{name: "Red", value: c["r"], max: 255, whole: true},
		{name: "Green", value: c["g"], max: 255, whole: true},
		{name: "Blue", value: c["b"], max: 255, whole: true},
		{name: "Alpha", value: c["a"], max: 1},
	}
	for _, ch := range channels {
		n, ok := asNumber(ch.value)
		if !ok {
			return shapeError(ch.name + " was not a number")
		}
		if !inRange(n, 0, ch.max) || (ch.whole && n != math.Trunc(n)) {
			return rangeError(ch.name + " was invalid")
		}
	}
	return nil
}

func (f *Fields) Password(password any) bool {
	s, ok := password.(string)
	if !ok {
		return false
	}
	n := textLength(s)
	return n >= MinPasswordLength && n <= MaxPasswordLength
}

// Email requires a syntactically valid address whose domain ends in a
// top-level domain.
func (f *Fields) Email(email any) bool {
	s, ok := email.(string)
	if !ok || s == "" {
		return false
	}
	if err := f.syntax.Var(s, "required,email"); err != nil {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	return f.syntax.Var(s[at+1:], "fqdn") == nil
}

func (f *Fields) Image(image any) bool {
	s, ok := image.(string)
	return ok && s != ""
}

func (f *Fields) NotPastDeadline(date, deadline time.Time) bool {
	if date.IsZero() || deadline.IsZero() {
		return false
	}
	return !date.After(deadline)
}
