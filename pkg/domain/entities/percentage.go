package entities

import (
	"encoding/json"
	"strconv"
)

// UndefinedLabel is how an undefined percentage is written in tables
const UndefinedLabel = "undefined"

// Percentage is a percentage-of-month contribution that may be undefined,
// which happens when the month total it relates to is zero.
type Percentage struct {
	Value float64
	Valid bool
}

// NewPercentage returns a defined percentage
func NewPercentage(value float64) Percentage {
	return Percentage{Value: value, Valid: true}
}

// UndefinedPercentage returns the undefined percentage
func UndefinedPercentage() Percentage {
	return Percentage{}
}

func (p Percentage) String() string {
	if !p.Valid {
		return UndefinedLabel
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}

// MarshalJSON writes null for an undefined percentage
func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON accepts a number or null
func (p *Percentage) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = UndefinedPercentage()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = NewPercentage(v)
	return nil
}
