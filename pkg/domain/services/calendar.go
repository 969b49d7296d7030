package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/forecast/pkg/domain/entities"
)

const (
	// WindowStartDay is the day of the previous month a business window opens on
	WindowStartDay = 27
	// WindowEndDay is the day of the labelled month a business window closes on
	WindowEndDay = 26
)

// monthLayouts are tried in order after the YYYY-MM fast path.
// Slash and dash dates are day first.
var monthLayouts = []string{
	"2006/01",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"Jan-2006",
	"Jan 2006",
	"January 2006",
	"January-2006",
	"Jan-06",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Calendar maps month labels to 27th-to-26th business windows
type Calendar struct {
	labelPattern *regexp.Regexp
	layouts      []string
}

// NewCalendar creates a calendar accepting the default month layouts
func NewCalendar() *Calendar {
	return &Calendar{
		labelPattern: regexp.MustCompile(`^(\d{4})-(\d{1,2})$`),
		layouts:      monthLayouts,
	}
}

// ParseMonth parses a month label such as "2024-02" into a Month
func (c *Calendar) ParseMonth(label string) (entities.Month, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return entities.Month{}, fmt.Errorf("%w: empty label", entities.ErrMalformedMonth)
	}

	if m := c.labelPattern.FindStringSubmatch(label); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return entities.NewMonth(year, time.Month(month))
	}

	for _, layout := range c.layouts {
		if t, err := time.Parse(layout, label); err == nil {
			return entities.NewMonth(t.Year(), t.Month())
		}
	}

	return entities.Month{}, fmt.Errorf("%w: %q", entities.ErrMalformedMonth, label)
}

// WindowFor returns the business window of a month: the 27th of the
// preceding month through the 26th of the month itself
func (c *Calendar) WindowFor(month entities.Month) entities.BusinessWindow {
	return entities.BusinessWindow{
		Start: month.Previous().Day(WindowStartDay),
		End:   month.Day(WindowEndDay),
	}
}

// WindowForLabel parses label and returns its business window
func (c *Calendar) WindowForLabel(label string) (entities.BusinessWindow, error) {
	month, err := c.ParseMonth(label)
	if err != nil {
		return entities.BusinessWindow{}, err
	}
	return c.WindowFor(month), nil
}

// IsBusinessDay reports whether date is a Monday to Friday
func (c *Calendar) IsBusinessDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// BusinessDays lists the Monday to Friday dates of a window in ascending order
func (c *Calendar) BusinessDays(window entities.BusinessWindow) ([]time.Time, error) {
	if window.Start.After(window.End) {
		return nil, fmt.Errorf("%w: start %s is after end %s",
			entities.ErrInvalidWindow,
			window.Start.Format(entities.DateLayout),
			window.End.Format(entities.DateLayout))
	}

	days := make([]time.Time, 0, window.CalendarDays())
	for d := window.Start; !d.After(window.End); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			days = append(days, d)
		}
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoBusinessDays, window)
	}
	return days, nil
}
