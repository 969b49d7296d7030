package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/domain/services"
)

func TestAnchorMonday(t *testing.T) {
	tests := []struct {
		minYear  int
		expected time.Time
	}{
		{2024, day(2024, 1, 1)},   // 2023-12-27 is a Wednesday
		{2025, day(2024, 12, 30)}, // 2024-12-27 is a Friday
		{2023, day(2023, 1, 2)},   // 2022-12-27 is a Tuesday
		{2021, day(2020, 12, 28)}, // 2020-12-27 is a Sunday
		{2016, day(2015, 12, 28)}, // 2015-12-27 is a Sunday
		{2019, day(2018, 12, 31)}, // 2018-12-27 is a Thursday
		{2026, day(2025, 12, 29)}, // 2025-12-27 is a Saturday
	}

	for _, tt := range tests {
		got := AnchorMonday(tt.minYear)
		assert.Equal(t, time.Monday, got.Weekday(), "year %d", tt.minYear)
		assert.True(t, tt.expected.Equal(got), "AnchorMonday(%d) = %s, want %s",
			tt.minYear, got.Format(entities.DateLayout), tt.expected.Format(entities.DateLayout))
	}
}

func TestAnchorMonday_OnTheTwentySeventh(t *testing.T) {
	// 2021-12-27 is itself a Monday
	assert.True(t, day(2021, 12, 27).Equal(AnchorMonday(2022)))
}

func TestAnchorForRows(t *testing.T) {
	anchor, err := AnchorForRows([]*entities.MonthlyForecastRow{
		mustRow(groupDE, 2025, time.March, 1),
		mustRow(groupUS, 2024, time.November, 1),
		mustRow(groupDE, 2026, time.January, 1),
	})
	require.NoError(t, err)
	assert.True(t, day(2024, 1, 1).Equal(anchor))

	_, err = AnchorForRows(nil)
	assert.Error(t, err)
}

func TestWeekIndexOf(t *testing.T) {
	anchor := day(2024, 1, 1)

	tests := []struct {
		date     time.Time
		expected entities.WeekIndex
	}{
		{day(2024, 1, 1), 1},
		{day(2024, 1, 7), 1},
		{day(2024, 1, 8), 2},
		{day(2024, 2, 26), 9},
		{day(2023, 12, 31), 0},
		{day(2023, 12, 27), 0},
		{day(2023, 12, 25), 0},
		{day(2023, 12, 24), -1},
		{day(2023, 12, 18), -1},
		{day(2023, 12, 17), -2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, WeekIndexOf(tt.date, anchor), tt.date.Format(entities.DateLayout))
	}
}

func TestWeekIndexOf_Monotonic(t *testing.T) {
	anchor := AnchorMonday(2024)
	prev := WeekIndexOf(day(2023, 11, 1), anchor)
	for d := day(2023, 11, 2); d.Before(day(2025, 3, 1)); d = d.AddDate(0, 0, 1) {
		cur := WeekIndexOf(d, anchor)
		assert.GreaterOrEqual(t, int(cur), int(prev))
		assert.LessOrEqual(t, int(cur-prev), 1)
		assert.Equal(t, cur, WeekIndexOf(d, anchor), "stable for the same date")
		prev = cur
	}
}

func TestWeekIndexOf_CenturiesFromAnchor(t *testing.T) {
	anchor := AnchorMonday(1700)
	require.Equal(t, day(1699, 12, 28), anchor)

	assert.Equal(t, entities.WeekIndex(16907), WeekIndexOf(day(2024, 1, 1), anchor))
	assert.Equal(t, entities.WeekIndex(16928), WeekIndexOf(day(2024, 6, 2), anchor))
	assert.Equal(t, entities.WeekIndex(16929), WeekIndexOf(day(2024, 6, 3), anchor))
}

func TestPercentageOf(t *testing.T) {
	pct, err := PercentageOf(70, 280)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, pct, 1e-12)

	_, err = PercentageOf(0, 0)
	assert.ErrorIs(t, err, entities.ErrUndefinedPercentage)
}

func TestAggregator_Aggregate_January2024(t *testing.T) {
	d := NewDistributor(services.NewCalendar())
	daily, _, err := d.DistributeGroup(groupDE, []*entities.MonthlyForecastRow{
		mustRow(groupDE, 2024, time.January, 230),
	})
	require.NoError(t, err)

	weekly, undefined := NewAggregator(nil).Aggregate(daily, AnchorMonday(2024))
	assert.Empty(t, undefined)

	// Window 2023-12-27..2024-01-26: 23 business days, 10 per day.
	// Dec 27-29 precede the anchor and fall in week 0.
	require.Len(t, weekly, 5)
	expected := []struct {
		week  entities.WeekIndex
		total float64
	}{
		{0, 30}, {1, 50}, {2, 50}, {3, 50}, {4, 50},
	}
	for i, e := range expected {
		assert.Equal(t, e.week, weekly[i].WeekIndex)
		assert.InDelta(t, e.total, weekly[i].WeeklyTotal, 1e-9)
		assert.InDelta(t, 230.0, weekly[i].MonthlyTotal, 1e-9)
		require.True(t, weekly[i].Percentage.Valid)
		assert.InDelta(t, 100*e.total/230, weekly[i].Percentage.Value, 1e-9)
	}
}

func TestAggregator_Aggregate_WeekSplitAcrossMonths(t *testing.T) {
	d := NewDistributor(services.NewCalendar())
	daily, _, err := d.DistributeGroup(groupDE, []*entities.MonthlyForecastRow{
		mustRow(groupDE, 2024, time.February, 210),
		mustRow(groupDE, 2024, time.March, 210),
	})
	require.NoError(t, err)

	weekly, _ := NewAggregator(nil).Aggregate(daily, AnchorMonday(2024))

	// Both windows hold 21 business days, so 10 per day.
	// Week 9 (Feb 26 - Mar 3) holds Feb 26 for month 1 and Feb 27 - Mar 1 for month 2.
	var month1Week9, month2Week9 *entities.WeeklyForecastEntry
	for i := range weekly {
		if weekly[i].WeekIndex != 9 {
			continue
		}
		switch weekly[i].MonthNumber {
		case 1:
			month1Week9 = &weekly[i]
		case 2:
			month2Week9 = &weekly[i]
		}
	}
	require.NotNil(t, month1Week9)
	require.NotNil(t, month2Week9)
	assert.InDelta(t, 10.0, month1Week9.WeeklyTotal, 1e-9)
	assert.InDelta(t, 40.0, month2Week9.WeeklyTotal, 1e-9)

	assert.InEpsilon(t, 210.0, sumWeekly(weekly, groupDE, 1), 1e-9)
	assert.InEpsilon(t, 210.0, sumWeekly(weekly, groupDE, 2), 1e-9)
}

func TestAggregator_Aggregate_OrderingAndSharedAnchor(t *testing.T) {
	d := NewDistributor(services.NewCalendar())
	usDaily, _, err := d.DistributeGroup(groupUS, []*entities.MonthlyForecastRow{mustRow(groupUS, 2025, time.June, 500)})
	require.NoError(t, err)
	deDaily, _, err := d.DistributeGroup(groupDE, []*entities.MonthlyForecastRow{mustRow(groupDE, 2024, time.June, 500)})
	require.NoError(t, err)

	anchor := AnchorMonday(2024)
	weekly, _ := NewAggregator(nil).Aggregate(append(usDaily, deDaily...), anchor)

	// US first (first seen), and its 2025 weeks are numbered from the 2024 anchor.
	assert.Equal(t, groupUS, weekly[0].Group)
	assert.Greater(t, int(weekly[0].WeekIndex), 52)
	assert.Equal(t, groupDE, weekly[len(weekly)-1].Group)

	for i := 1; i < len(weekly); i++ {
		if weekly[i].Group == weekly[i-1].Group && weekly[i].MonthNumber == weekly[i-1].MonthNumber {
			assert.Less(t, int(weekly[i-1].WeekIndex), int(weekly[i].WeekIndex))
		}
	}
}

func TestAggregator_Aggregate_ZeroMonthIsUndefined(t *testing.T) {
	d := NewDistributor(services.NewCalendar())
	daily, _, err := d.DistributeGroup(groupDE, []*entities.MonthlyForecastRow{
		mustRow(groupDE, 2024, time.February, 0),
		mustRow(groupDE, 2024, time.March, 100),
	})
	require.NoError(t, err)

	weekly, undefined := NewAggregator(nil).Aggregate(daily, AnchorMonday(2024))

	require.Len(t, undefined, 1)
	assert.Equal(t, groupDE, undefined[0].Group)
	assert.Equal(t, entities.MonthNumber(1), undefined[0].MonthNumber)

	for _, w := range weekly {
		if w.MonthNumber == 1 {
			assert.False(t, w.Percentage.Valid)
			assert.Equal(t, 0.0, w.MonthlyTotal)
		} else {
			assert.True(t, w.Percentage.Valid)
		}
	}
}

func TestPivot(t *testing.T) {
	weekly := []entities.WeeklyForecastEntry{
		{Group: groupDE, MonthNumber: 1, WeekIndex: 2, WeeklyTotal: 60, MonthlyTotal: 100, Percentage: entities.NewPercentage(60)},
		{Group: groupDE, MonthNumber: 1, WeekIndex: 1, WeeklyTotal: 40, MonthlyTotal: 100, Percentage: entities.NewPercentage(40)},
		{Group: groupUS, MonthNumber: 1, WeekIndex: 3, WeeklyTotal: 0, MonthlyTotal: 0, Percentage: entities.UndefinedPercentage()},
	}

	table := Pivot(weekly)

	require.Len(t, table.Columns, 3)
	assert.Equal(t, entities.WeekIndex(1), table.Columns[0].WeekIndex)
	assert.Equal(t, entities.WeekIndex(2), table.Columns[1].WeekIndex)
	assert.Equal(t, entities.WeekIndex(3), table.Columns[2].WeekIndex)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, groupDE, table.Rows[0].Group)
	assert.Equal(t, 40.0, table.Rows[0].Cells[0].WeeklyTotal)
	assert.Equal(t, 60.0, table.Rows[0].Cells[1].WeeklyTotal)
	assert.False(t, table.Rows[0].Cells[2].Present)

	assert.Equal(t, groupUS, table.Rows[1].Group)
	assert.False(t, table.Rows[1].Cells[0].Present)
	assert.True(t, table.Rows[1].Cells[2].Present)
	assert.False(t, table.Rows[1].Cells[2].Percentage.Valid)
}
