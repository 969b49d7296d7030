package testing

import (
	"time"

	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/infrastructure/repositories/memory"
)

// Sample groups used across the test scenarios
var (
	GroupDE = entities.GroupKey{Country: "DE", Region: "EMEA", Material: "MAT-100"}
	GroupUS = entities.GroupKey{Country: "US", Region: "AMER", Material: "MAT-200"}
	GroupJP = entities.GroupKey{Country: "JP", Region: "APAC", Material: "MAT-100"}
)

// SampleMonth is one monthly row of a scenario
type SampleMonth struct {
	Group entities.GroupKey
	Month entities.Month
	Value float64
}

// SampleForecast is a quarter of demand for three groups. US has a zero
// month and JP starts in the second month.
var SampleForecast = []SampleMonth{
	{GroupDE, entities.Month{Year: 2024, Month: time.January}, 230},
	{GroupDE, entities.Month{Year: 2024, Month: time.February}, 280},
	{GroupDE, entities.Month{Year: 2024, Month: time.March}, 210},
	{GroupUS, entities.Month{Year: 2024, Month: time.January}, 1150},
	{GroupUS, entities.Month{Year: 2024, Month: time.February}, 0},
	{GroupUS, entities.Month{Year: 2024, Month: time.March}, 84},
	{GroupJP, entities.Month{Year: 2024, Month: time.February}, 42},
	{GroupJP, entities.Month{Year: 2024, Month: time.March}, 63},
}

// SampleRows converts a scenario into validated monthly rows, panicking on
// invalid fixture data
func SampleRows(months []SampleMonth) []*entities.MonthlyForecastRow {
	rows := make([]*entities.MonthlyForecastRow, 0, len(months))
	for _, m := range months {
		row, err := entities.NewMonthlyForecastRow(m.Group, m.Month, m.Value)
		if err != nil {
			panic(err)
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildSampleForecastData loads SampleForecast into a repository
func BuildSampleForecastData() *memory.ForecastRepository {
	return buildRepository(SampleForecast)
}

// BuildSimpleForecastData builds a single group with one month of 280 units
// over the 21 business days of the 2024-02 window
func BuildSimpleForecastData() *memory.ForecastRepository {
	return buildRepository([]SampleMonth{
		{GroupDE, entities.Month{Year: 2024, Month: time.February}, 280},
	})
}

func buildRepository(months []SampleMonth) *memory.ForecastRepository {
	repo := memory.NewForecastRepository(len(months))
	if err := repo.LoadRows(SampleRows(months)); err != nil {
		panic(err)
	}
	return repo
}
