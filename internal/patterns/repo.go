package patterns

import (
	"context"

	"github.com/healthsignals/insights-engine/internal/models"
)

// StoreFunc adapts a function to the Store interface.
type StoreFunc func(ctx context.Context, patientID string, patterns []models.RecurringPattern) error

// StorePatterns implements Store.
func (f StoreFunc) StorePatterns(ctx context.Context, patientID string, patterns []models.RecurringPattern) error {
	return f(ctx, patientID, patterns)
}
