package memory

import (
	"fmt"

	"github.com/vsinha/forecast/pkg/domain/entities"
	"github.com/vsinha/forecast/pkg/domain/repositories"
)

// ForecastRepository provides in-memory storage of the monthly rows of one run
type ForecastRepository struct {
	rows       []entities.MonthlyForecastRow
	groups     []entities.GroupKey
	groupIndex map[entities.GroupKey][]int
}

// NewForecastRepository creates a new in-memory forecast repository
func NewForecastRepository(expectedRows int) *ForecastRepository {
	return &ForecastRepository{
		rows:       make([]entities.MonthlyForecastRow, 0, expectedRows),
		groupIndex: make(map[entities.GroupKey][]int),
	}
}

// Verify interface compliance
var _ repositories.ForecastRepository = (*ForecastRepository)(nil)

// LoadRows appends rows to the repository, keeping their order
func (r *ForecastRepository) LoadRows(rows []*entities.MonthlyForecastRow) error {
	for i, row := range rows {
		if row == nil {
			return fmt.Errorf("row %d is nil", i+1)
		}
		r.AddRow(*row)
	}
	return nil
}

// AddRow appends a single row
func (r *ForecastRepository) AddRow(row entities.MonthlyForecastRow) {
	if _, seen := r.groupIndex[row.Group]; !seen {
		r.groups = append(r.groups, row.Group)
	}
	r.groupIndex[row.Group] = append(r.groupIndex[row.Group], len(r.rows))
	r.rows = append(r.rows, row)
}

// GetRows returns all rows in input order
func (r *ForecastRepository) GetRows() ([]*entities.MonthlyForecastRow, error) {
	rows := make([]*entities.MonthlyForecastRow, 0, len(r.rows))
	for i := range r.rows {
		rows = append(rows, &r.rows[i])
	}
	return rows, nil
}

// GetGroups returns the group keys in order of first appearance
func (r *ForecastRepository) GetGroups() ([]entities.GroupKey, error) {
	groups := make([]entities.GroupKey, len(r.groups))
	copy(groups, r.groups)
	return groups, nil
}

// GetRowsForGroup returns the rows of a group in input order
func (r *ForecastRepository) GetRowsForGroup(group entities.GroupKey) ([]*entities.MonthlyForecastRow, error) {
	indexes, exists := r.groupIndex[group]
	if !exists {
		return nil, fmt.Errorf("group not found: %s", group)
	}
	rows := make([]*entities.MonthlyForecastRow, 0, len(indexes))
	for _, i := range indexes {
		rows = append(rows, &r.rows[i])
	}
	return rows, nil
}

// Len returns the number of stored rows
func (r *ForecastRepository) Len() int {
	return len(r.rows)
}
