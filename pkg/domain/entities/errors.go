package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedMonth is returned when a month label cannot be parsed into a year and month
	ErrMalformedMonth = errors.New("malformed month label")
	// ErrInvalidWindow is returned when a business window starts after it ends
	ErrInvalidWindow = errors.New("invalid business window")
	// ErrNoBusinessDays is returned when a business window holds no Monday to Friday dates
	ErrNoBusinessDays = errors.New("business window has no business days")
	// ErrUndefinedPercentage is returned when a contribution is taken against a zero month total
	ErrUndefinedPercentage = errors.New("percentage contribution undefined for zero monthly total")
)

// MissingColumnsError reports the required columns absent from an input table
type MissingColumnsError struct {
	Input   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s is missing required columns: %s", e.Input, strings.Join(e.Columns, ", "))
}
