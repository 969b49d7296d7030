package repositories

import "github.com/vsinha/forecast/pkg/domain/entities"

// ForecastRepository provides access to the monthly forecast rows of one run
type ForecastRepository interface {
	// GetRows returns every row in input order
	GetRows() ([]*entities.MonthlyForecastRow, error)
	// GetGroups returns the distinct group keys in order of first appearance
	GetGroups() ([]entities.GroupKey, error)
	// GetRowsForGroup returns the rows of one group in input order
	GetRowsForGroup(group entities.GroupKey) ([]*entities.MonthlyForecastRow, error)
	LoadRows(rows []*entities.MonthlyForecastRow) error
}
