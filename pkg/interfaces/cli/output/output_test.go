package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/forecast/pkg/application/dto"
	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/infrastructure/config"
	"github.com/vsinha/forecast/pkg/infrastructure/repositories/excel"
)

var testGroup = entities.GroupKey{Country: "DE", Region: "EMEA", Material: "MAT-100"}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testWeekly() []entities.WeeklyForecastEntry {
	return []entities.WeeklyForecastEntry{
		{Group: testGroup, MonthNumber: 1, WeekIndex: 1, WeeklyTotal: 40, MonthlyTotal: 100, Percentage: entities.NewPercentage(40)},
		{Group: testGroup, MonthNumber: 1, WeekIndex: 2, WeeklyTotal: 60, MonthlyTotal: 100, Percentage: entities.NewPercentage(60)},
		{Group: testGroup, MonthNumber: 2, WeekIndex: 5, WeeklyTotal: 0, MonthlyTotal: 0, Percentage: entities.UndefinedPercentage()},
	}
}

func testResult() *dto.ConversionResult {
	return &dto.ConversionResult{
		Anchor: date(2024, time.January, 1),
		Groups: []entities.GroupKey{testGroup},
		Windows: []dto.WindowSummary{{
			Group:           testGroup,
			MonthNumber:     1,
			Month:           "2024-01",
			Window:          entities.BusinessWindow{Start: date(2023, time.December, 27), End: date(2024, time.January, 26)},
			BusinessDays:    23,
			MonthlyForecast: 100,
			DailyValue:      100.0 / 23,
		}},
		Daily: []entities.DailyForecastEntry{
			{Date: date(2024, time.January, 1), Group: testGroup, MonthNumber: 1, Value: 2.5},
		},
		Weekly: testWeekly(),
		Pivot: &dto.PivotTable{
			Columns: []dto.PivotColumn{{MonthNumber: 1, WeekIndex: 1}, {MonthNumber: 1, WeekIndex: 2}, {MonthNumber: 2, WeekIndex: 5}},
			Rows: []dto.PivotRow{{
				Group: testGroup,
				Cells: []dto.PivotCell{
					{WeeklyTotal: 40, Percentage: entities.NewPercentage(40), Present: true},
					{},
					{WeeklyTotal: 0, Percentage: entities.UndefinedPercentage(), Present: true},
				},
			}},
		},
		UndefinedMonths: []dto.MonthRef{{Group: testGroup, MonthNumber: 2}},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	written, err := Generate(testResult(), Config{Format: config.FormatText, Stdout: &buf, InputFile: "plan.csv", Verbose: true})
	require.NoError(t, err)
	assert.Empty(t, written)

	out := buf.String()
	assert.Contains(t, out, "Input: plan.csv")
	assert.Contains(t, out, "Anchor Monday: 2024-01-01")
	assert.Contains(t, out, "DE/EMEA/MAT-100 month 2")
	assert.Contains(t, out, "undefined")
	assert.Contains(t, out, "Daily Forecast:")
	assert.Contains(t, out, "2023-12-27")
}

func TestGenerate_TextToFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	written, err := Generate(testResult(), Config{Format: config.FormatText, OutputDir: dir, Stdout: &buf})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, TextFile)}, written)
	assert.Empty(t, buf.String())
	assert.Contains(t, readFile(t, written[0]), "Weekly Forecast Summary")
}

func TestGenerate_JSON(t *testing.T) {
	var buf bytes.Buffer
	generated := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	_, err := Generate(testResult(), Config{Format: config.FormatJSON, Stdout: &buf, InputFile: "plan.xlsx", GeneratedAt: generated})
	require.NoError(t, err)

	var doc struct {
		Metadata Metadata `json:"metadata"`
		Weekly   []struct {
			Percentage *float64 `json:"percentage_contribution"`
		} `json:"weekly"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "plan.xlsx", doc.Metadata.InputFile)
	assert.Equal(t, "2024-01-01", doc.Metadata.Anchor)
	assert.True(t, generated.Equal(doc.Metadata.GeneratedAt))
	require.Len(t, doc.Weekly, 3)
	require.NotNil(t, doc.Weekly[0].Percentage)
	assert.Equal(t, 40.0, *doc.Weekly[0].Percentage)
	assert.Nil(t, doc.Weekly[2].Percentage, "undefined percentages marshal as null")
}

func TestGenerate_CSV(t *testing.T) {
	dir := t.TempDir()

	written, err := Generate(testResult(), Config{Format: config.FormatCSV, OutputDir: dir})
	require.NoError(t, err)
	require.Len(t, written, 3)

	weekly := strings.Split(strings.TrimSpace(readFile(t, filepath.Join(dir, WeeklyCSVFile))), "\n")
	assert.Equal(t, []string{
		"Country,Region,Material,Month Number,Week Number,Weekly Forecast,Monthly Total,PercentageContribution",
		"DE,EMEA,MAT-100,1,1,40,100,40",
		"DE,EMEA,MAT-100,1,2,60,100,60",
		"DE,EMEA,MAT-100,2,5,0,0,undefined",
	}, weekly)

	daily := readFile(t, filepath.Join(dir, DailyCSVFile))
	assert.Contains(t, daily, "Country,Region,Material,Month Number,Date,Day of Week,Daily Forecast\n")
	assert.Contains(t, daily, "DE,EMEA,MAT-100,1,2024-01-01,Monday,2.5\n")

	pivot := strings.Split(strings.TrimSpace(readFile(t, filepath.Join(dir, PivotCSVFile))), "\n")
	require.Len(t, pivot, 2)
	assert.Equal(t, "Country,Region,Material,"+
		"M1 W1 Weekly Forecast,M1 W1 PercentageContribution,"+
		"M1 W2 Weekly Forecast,M1 W2 PercentageContribution,"+
		"M2 W5 Weekly Forecast,M2 W5 PercentageContribution", pivot[0])
	assert.Equal(t, "DE,EMEA,MAT-100,40,40,,,0,undefined", pivot[1])
}

func TestGenerate_RequiresOutputDir(t *testing.T) {
	_, err := Generate(testResult(), Config{Format: config.FormatCSV})
	assert.ErrorContains(t, err, "output directory required")

	_, err = Generate(testResult(), Config{Format: config.FormatXLSX})
	assert.ErrorContains(t, err, "output directory required")

	_, err = Generate(testResult(), Config{Format: "yaml"})
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestGenerate_Excel(t *testing.T) {
	dir := t.TempDir()

	written, err := Generate(testResult(), Config{Format: config.FormatXLSX, OutputDir: dir})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, WorkbookFile)}, written)

	f, err := excelize.OpenFile(written[0])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Daily", "Weekly", "Pivot", "Windows"}, f.GetSheetList())

	header, err := f.GetCellValue("Weekly", "H1")
	require.NoError(t, err)
	assert.Equal(t, entities.ColumnPercentage, header)

	value, err := f.GetCellValue("Weekly", "F3")
	require.NoError(t, err)
	assert.Equal(t, "60", value)

	undefined, err := f.GetCellValue("Weekly", "H4")
	require.NoError(t, err)
	assert.Equal(t, entities.UndefinedLabel, undefined)
}

func TestGenerate_ExcelRoundTrip(t *testing.T) {
	dir := t.TempDir()

	written, err := Generate(testResult(), Config{Format: config.FormatXLSX, OutputDir: dir})
	require.NoError(t, err)

	entries, err := excel.NewLoader(nil, "").LoadUpdatedWeekly(written[0])
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for i, w := range testWeekly() {
		assert.Equal(t, w.Group, entries[i].Group)
		assert.Equal(t, w.MonthNumber, entries[i].MonthNumber)
		assert.Equal(t, w.WeekIndex, entries[i].WeekIndex)
		assert.Equal(t, w.Percentage, entries[i].Percentage)
		assert.Equal(t, w.WeeklyTotal, entries[i].WeeklyForecast)
	}
}

func testAdjustment() *dto.AdjustmentResult {
	original := testWeekly()
	adjusted := testWeekly()
	original[0].WeeklyTotal = 30
	original[1].WeeklyTotal = 70
	return &dto.AdjustmentResult{Original: original, Adjusted: adjusted}
}

func TestGenerateAdjustment_CSVWithDiff(t *testing.T) {
	dir := t.TempDir()

	written, err := GenerateAdjustment(testAdjustment(), Config{Format: config.FormatCSV, OutputDir: dir, Diff: true})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, AdjustedCSVFile),
		filepath.Join(dir, AdjustmentDiffFile),
	}, written)

	assert.Contains(t, readFile(t, written[0]), "DE,EMEA,MAT-100,1,1,40,100,40\n")

	diff := readFile(t, written[1])
	assert.Contains(t, diff, "--- original/weekly_forecast.csv")
	assert.Contains(t, diff, "+++ adjusted/weekly_forecast.csv")
	assert.Contains(t, diff, "-DE,EMEA,MAT-100,1,1,30,100,40")
	assert.Contains(t, diff, "+DE,EMEA,MAT-100,1,1,40,100,40")
	assert.NotContains(t, diff, "-DE,EMEA,MAT-100,2,5")
}

func TestGenerateAdjustment_TextDiffToStdout(t *testing.T) {
	var buf bytes.Buffer

	written, err := GenerateAdjustment(testAdjustment(), Config{Format: config.FormatText, Stdout: &buf, Diff: true})
	require.NoError(t, err)
	assert.Empty(t, written)

	out := buf.String()
	assert.Contains(t, out, "Changed: 2")
	assert.Contains(t, out, "+DE,EMEA,MAT-100,1,2,60,100,60")
}

func TestAdjustmentDiff_NoChanges(t *testing.T) {
	diff, err := AdjustmentDiff(&dto.AdjustmentResult{Original: testWeekly(), Adjusted: testWeekly()})
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "12.5", formatCell(12.5))
	assert.Equal(t, "13.333333333333334", formatCell(280.0/21))
	assert.Equal(t, "100000000", formatCell(1e8))
	assert.Equal(t, "7", formatCell(7))
	assert.Equal(t, "undefined", formatCell(entities.UndefinedPercentage()))
	assert.Equal(t, "42.5", formatCell(entities.NewPercentage(42.5)))
}
