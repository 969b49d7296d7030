package forecast

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/vsinha/forecast/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// Reallocator rebuilds absolute weekly values from edited percentage contributions
type Reallocator struct{}

// NewReallocator creates a reallocator
func NewReallocator() *Reallocator {
	return &Reallocator{}
}

// monthlyTotals sums the weekly forecast column per (group, month number)
func (r *Reallocator) monthlyTotals(updated []*entities.UpdatedWeeklyForecastEntry) (map[monthKey]decimal.Decimal, error) {
	totals := make(map[monthKey]decimal.Decimal)
	for i, entry := range updated {
		if !isFinite(entry.WeeklyForecast) {
			return nil, fmt.Errorf("row %d: weekly forecast must be a finite number, got %v", i+1, entry.WeeklyForecast)
		}
		key := monthKey{entry.Group, entry.MonthNumber}
		totals[key] = totals[key].Add(decimal.NewFromFloat(entry.WeeklyForecast))
	}
	return totals, nil
}

// Reallocate returns one weekly entry per input row, in input order, with
// WeeklyTotal = PercentageContribution / 100 * MonthlyTotal. Percentages of a
// month are not required to add up to 100.
func (r *Reallocator) Reallocate(updated []*entities.UpdatedWeeklyForecastEntry) ([]entities.WeeklyForecastEntry, error) {
	totals, err := r.monthlyTotals(updated)
	if err != nil {
		return nil, err
	}

	result := make([]entities.WeeklyForecastEntry, 0, len(updated))
	for i, entry := range updated {
		total := totals[monthKey{entry.Group, entry.MonthNumber}]

		var weekly decimal.Decimal
		switch {
		case entry.Percentage.Valid:
			if !isFinite(entry.Percentage.Value) {
				return nil, fmt.Errorf("row %d: percentage contribution must be a finite number, got %v",
					i+1, entry.Percentage.Value)
			}
			weekly = decimal.NewFromFloat(entry.Percentage.Value).Mul(total).Div(hundred)
		case total.IsZero():
			weekly = decimal.Zero
		default:
			return nil, fmt.Errorf("row %d: group %s month %d week %d: %w",
				i+1, entry.Group, entry.MonthNumber, entry.WeekIndex, entities.ErrUndefinedPercentage)
		}

		result = append(result, entities.WeeklyForecastEntry{
			Group:        entry.Group,
			MonthNumber:  entry.MonthNumber,
			WeekIndex:    entry.WeekIndex,
			WeeklyTotal:  weekly.InexactFloat64(),
			MonthlyTotal: total.InexactFloat64(),
			Percentage:   entry.Percentage,
		})
	}

	return result, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
