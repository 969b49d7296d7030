package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/forecast/pkg/application/services/forecast"
	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// A planner's monthly forecast for one material in Germany
	group := entities.GroupKey{Country: "DE", Region: "EMEA", Material: "PUMP-7"}
	monthly := []struct {
		month time.Month
		value float64
	}{
		{time.January, 230},
		{time.February, 280},
		{time.March, 210},
	}

	repo := memory.NewForecastRepository(len(monthly))
	for _, m := range monthly {
		row, err := entities.NewMonthlyForecastRow(group, entities.Month{Year: 2024, Month: m.month}, m.value)
		if err != nil {
			fmt.Printf("❌ Invalid row: %v\n", err)
			return
		}
		repo.AddRow(*row)
	}

	service := forecast.NewForecastService(nil)

	fmt.Println("🚀 Converting monthly forecast to weeks...")
	result, err := service.Convert(ctx, repo)
	if err != nil {
		fmt.Printf("❌ Conversion failed: %v\n", err)
		return
	}

	fmt.Printf("Anchor Monday: %s\n\n", result.Anchor.Format(entities.DateLayout))

	fmt.Println("📅 Business Windows:")
	for _, w := range result.Windows {
		fmt.Printf("  Month %d (%s): %s, %d business days, %.4f per day\n",
			w.MonthNumber, w.Month, w.Window, w.BusinessDays, w.DailyValue)
	}
	fmt.Println()

	fmt.Println("📋 Weekly Forecast:")
	for _, w := range result.Weekly {
		fmt.Printf("  Month %d Week %2d: %8.3f  (%s%% of %.0f)\n",
			w.MonthNumber, w.WeekIndex, w.WeeklyTotal, w.Percentage, w.MonthlyTotal)
	}
	fmt.Println()

	// Shift demand of the first month towards its last week and rebuild the
	// weekly values from the edited percentages
	updated := make([]*entities.UpdatedWeeklyForecastEntry, 0, len(result.Weekly))
	for _, w := range result.Weekly {
		pct := w.Percentage
		if w.MonthNumber == 1 {
			pct = entities.NewPercentage(10)
			if w.WeekIndex == 5 {
				pct = entities.NewPercentage(60)
			}
		}
		updated = append(updated, &entities.UpdatedWeeklyForecastEntry{
			Group:          w.Group,
			MonthNumber:    w.MonthNumber,
			WeekIndex:      w.WeekIndex,
			Percentage:     pct,
			WeeklyForecast: w.WeeklyTotal,
		})
	}

	fmt.Println("✏️  Reallocating month 1 by edited percentages...")
	adjusted, err := service.Adjust(ctx, updated)
	if err != nil {
		fmt.Printf("❌ Adjustment failed: %v\n", err)
		return
	}

	for i, w := range adjusted.Adjusted {
		if w.MonthNumber != 1 {
			continue
		}
		fmt.Printf("  Week %2d: %8.3f -> %8.3f\n",
			w.WeekIndex, adjusted.Original[i].WeeklyTotal, w.WeeklyTotal)
	}

	fmt.Println()
	fmt.Println("🏁 Example completed!")
}
