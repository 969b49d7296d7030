package output

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/vsinha/forecast/pkg/application/dto"
)

// AdjustmentDiff renders a unified diff between the uploaded and the
// reallocated weekly tables in CSV form. It is empty when nothing changed.
func AdjustmentDiff(result *dto.AdjustmentResult) (string, error) {
	original, err := csvString(weeklyTable(result.Original))
	if err != nil {
		return "", err
	}
	adjusted, err := csvString(weeklyTable(result.Adjusted))
	if err != nil {
		return "", err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(adjusted),
		FromFile: "original/" + WeeklyCSVFile,
		ToFile:   "adjusted/" + WeeklyCSVFile,
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to diff weekly forecast: %w", err)
	}
	return text, nil
}
