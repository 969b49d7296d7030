package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/forecast/pkg/application/dto"
	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/domain/repositories"
	"github.com/vsinha/forecast/pkg/domain/services"
	applog "github.com/vsinha/forecast/pkg/infrastructure/log"
)

// ForecastService runs the monthly-to-weekly pipeline and the percentage round trip.
// Each call works on its own data; nothing is kept between calls.
type ForecastService struct {
	calendar    *services.Calendar
	distributor *Distributor
	aggregator  *Aggregator
	reallocator *Reallocator
	logger      *applog.Logger
}

// NewForecastService creates a service with the default calendar
func NewForecastService(logger *applog.Logger) *ForecastService {
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentForecast)
	calendar := services.NewCalendar()

	return &ForecastService{
		calendar:    calendar,
		distributor: NewDistributor(calendar),
		aggregator:  NewAggregator(logger),
		reallocator: NewReallocator(),
		logger:      logger,
	}
}

// Calendar returns the calendar the service buckets months with
func (s *ForecastService) Calendar() *services.Calendar {
	return s.calendar
}

// Convert turns the monthly rows held in repo into daily, weekly and pivoted
// forecasts. Any failing row fails the whole run.
func (s *ForecastService) Convert(ctx context.Context, repo repositories.ForecastRepository) (*dto.ConversionResult, error) {
	startTime := time.Now()

	rows, err := repo.GetRows()
	if err != nil {
		return nil, fmt.Errorf("failed to read monthly rows: %w", err)
	}

	anchor, err := AnchorForRows(rows)
	if err != nil {
		return nil, err
	}

	groups, err := repo.GetGroups()
	if err != nil {
		return nil, fmt.Errorf("failed to read groups: %w", err)
	}

	s.logger.DebugContext(ctx, "converting monthly forecast",
		applog.FieldRows, len(rows),
		applog.FieldGroups, len(groups),
		applog.FieldAnchor, anchor.Format(entities.DateLayout))

	result := &dto.ConversionResult{
		Anchor: anchor,
		Groups: groups,
		Daily:  make([]entities.DailyForecastEntry, 0, len(rows)*23),
	}

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		groupRows, err := repo.GetRowsForGroup(group)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows for %s: %w", group, err)
		}

		daily, windows, err := s.distributor.DistributeGroup(group, groupRows)
		if err != nil {
			return nil, err
		}

		for _, w := range windows {
			if w.DuplicateRows > 0 {
				s.logger.WarnContext(ctx, "duplicate month rows summed",
					applog.FieldGroup, group.String(),
					applog.FieldMonth, w.Month,
					"duplicates", w.DuplicateRows)
			}
		}

		result.Daily = append(result.Daily, daily...)
		result.Windows = append(result.Windows, windows...)
	}

	result.Weekly, result.UndefinedMonths = s.aggregator.Aggregate(result.Daily, anchor)
	result.Pivot = Pivot(result.Weekly)

	s.logger.DebugContext(ctx, "conversion finished",
		"daily", len(result.Daily),
		"weekly", len(result.Weekly),
		applog.FieldDuration, time.Since(startTime).Milliseconds())

	return result, nil
}

// Adjust recomputes weekly values from edited percentage contributions
func (s *ForecastService) Adjust(
	ctx context.Context,
	updated []*entities.UpdatedWeeklyForecastEntry,
) (*dto.AdjustmentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("no weekly rows provided for adjustment")
	}

	adjusted, err := s.reallocator.Reallocate(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to reallocate weekly forecast: %w", err)
	}

	original := make([]entities.WeeklyForecastEntry, len(updated))
	for i, entry := range updated {
		original[i] = entities.WeeklyForecastEntry{
			Group:        entry.Group,
			MonthNumber:  entry.MonthNumber,
			WeekIndex:    entry.WeekIndex,
			WeeklyTotal:  entry.WeeklyForecast,
			MonthlyTotal: adjusted[i].MonthlyTotal,
			Percentage:   entry.Percentage,
		}
	}

	s.logger.DebugContext(ctx, "adjustment finished", applog.FieldRows, len(adjusted))

	return &dto.AdjustmentResult{Original: original, Adjusted: adjusted}, nil
}
