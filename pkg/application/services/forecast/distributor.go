package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/vsinha/forecast/pkg/application/dto"
	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/domain/services"
)

// Distributor spreads monthly totals over the business days of their windows
type Distributor struct {
	calendar *services.Calendar
}

// NewDistributor creates a distributor using the given calendar
func NewDistributor(calendar *services.Calendar) *Distributor {
	return &Distributor{calendar: calendar}
}

// Distribute splits total evenly over days, one equal share per date
func (d *Distributor) Distribute(total float64, days []time.Time) (map[time.Time]float64, error) {
	if len(days) == 0 {
		return nil, entities.ErrNoBusinessDays
	}

	share := total / float64(len(days))
	values := make(map[time.Time]float64, len(days))
	for _, day := range days {
		values[day] += share
	}
	return values, nil
}

// MonthNumbers assigns 1-based sequence numbers to distinct windows in the
// order their start dates are first seen
type MonthNumbers struct {
	index map[time.Time]entities.MonthNumber
	order []time.Time
}

// NewMonthNumbers creates an empty sequence
func NewMonthNumbers() *MonthNumbers {
	return &MonthNumbers{index: make(map[time.Time]entities.MonthNumber)}
}

// Assign returns the number of the window starting at start, allocating the
// next one if the start date has not been seen
func (m *MonthNumbers) Assign(start time.Time) entities.MonthNumber {
	if n, ok := m.index[start]; ok {
		return n
	}
	n := entities.MonthNumber(len(m.order) + 1)
	m.index[start] = n
	m.order = append(m.order, start)
	return n
}

// Lookup returns the number already assigned to start
func (m *MonthNumbers) Lookup(start time.Time) (entities.MonthNumber, bool) {
	n, ok := m.index[start]
	return n, ok
}

// Len returns how many distinct windows have been numbered
func (m *MonthNumbers) Len() int {
	return len(m.order)
}

// DailySeries accumulates the daily values of one group. A date reached by
// more than one row keeps the sum of all contributions.
type DailySeries struct {
	group  entities.GroupKey
	values map[time.Time]float64
	months map[time.Time]entities.MonthNumber
	dates  []time.Time
}

// NewDailySeries creates an empty series for group
func NewDailySeries(group entities.GroupKey) *DailySeries {
	return &DailySeries{
		group:  group,
		values: make(map[time.Time]float64),
		months: make(map[time.Time]entities.MonthNumber),
	}
}

// Add merges distributed values into the series and returns how many dates
// already held a value
func (s *DailySeries) Add(monthNumber entities.MonthNumber, days []time.Time, values map[time.Time]float64) int {
	overlaps := 0
	for _, day := range days {
		if _, exists := s.values[day]; exists {
			overlaps++
		} else {
			s.dates = append(s.dates, day)
			s.months[day] = monthNumber
		}
		s.values[day] += values[day]
	}
	return overlaps
}

// Entries returns the series in date order
func (s *DailySeries) Entries() []entities.DailyForecastEntry {
	dates := make([]time.Time, len(s.dates))
	copy(dates, s.dates)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	entries := make([]entities.DailyForecastEntry, 0, len(dates))
	for _, day := range dates {
		entries = append(entries, entities.DailyForecastEntry{
			Date:        day,
			Group:       s.group,
			MonthNumber: s.months[day],
			Value:       s.values[day],
		})
	}
	return entries
}

// DistributeGroup builds the daily series of one group from its rows, taken
// in input order. Month numbers are fixed before any value is distributed.
func (d *Distributor) DistributeGroup(
	group entities.GroupKey,
	rows []*entities.MonthlyForecastRow,
) ([]entities.DailyForecastEntry, []dto.WindowSummary, error) {
	numbers := NewMonthNumbers()
	windows := make([]entities.BusinessWindow, len(rows))
	for i, row := range rows {
		windows[i] = d.calendar.WindowFor(row.Month)
		numbers.Assign(windows[i].Start)
	}

	series := NewDailySeries(group)
	summaries := make([]dto.WindowSummary, 0, numbers.Len())
	summaryIndex := make(map[entities.MonthNumber]int, numbers.Len())

	for i, row := range rows {
		window := windows[i]
		days, err := d.calendar.BusinessDays(window)
		if err != nil {
			return nil, nil, fmt.Errorf("group %s month %s: %w", group, row.Month, err)
		}

		values, err := d.Distribute(row.MonthlyForecast, days)
		if err != nil {
			return nil, nil, fmt.Errorf("group %s month %s: %w", group, row.Month, err)
		}

		monthNumber, _ := numbers.Lookup(window.Start)
		overlaps := series.Add(monthNumber, days, values)

		if idx, seen := summaryIndex[monthNumber]; seen {
			summaries[idx].MonthlyForecast += row.MonthlyForecast
			summaries[idx].DailyValue += values[days[0]]
			summaries[idx].DuplicateRows++
			summaries[idx].OverlappingDays += overlaps
			continue
		}

		summaryIndex[monthNumber] = len(summaries)
		summaries = append(summaries, dto.WindowSummary{
			Group:           group,
			MonthNumber:     monthNumber,
			Month:           row.Month.String(),
			Window:          window,
			BusinessDays:    len(days),
			MonthlyForecast: row.MonthlyForecast,
			DailyValue:      values[days[0]],
			OverlappingDays: overlaps,
		})
	}

	return series.Entries(), summaries, nil
}
