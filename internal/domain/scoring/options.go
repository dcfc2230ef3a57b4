// Package scoring computes the integrity score and report for a
// session from its ordered event log.
package scoring

import "github.com/okian/vigil/internal/domain/model"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithDeductions replaces the deduction table.
func WithDeductions(table DeductionTable) Option {
	return func(a *Aggregator) {
		if len(table) == 0 {
			return
		}
		// Copy to keep the aggregator immune to later mutation.
		a.deductions = make(DeductionTable, len(table))
		for at, points := range table {
			a.deductions[at] = points
		}
	}
}

// WithDefaultDeduction sets the deduction for unrecognized alert types.
func WithDefaultDeduction(points int) Option {
	return func(a *Aggregator) {
		if points >= 0 {
			a.defaultDeduction = points
		}
	}
}

// WithObjectFallback sets the alert type whose weight unrecognized
// object subtypes inherit.
func WithObjectFallback(at model.AlertType) Option {
	return func(a *Aggregator) {
		if at != "" {
			a.objectFallback = at
		}
	}
}
