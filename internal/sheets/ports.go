package sheets

import (
	"context"

	"foodtracker/internal/core"
)

// Ports for outbound adapters.
type (
	// SummaryWriter replaces the mirrored daily summary with rows.
	SummaryWriter interface {
		ReplaceSummary(ctx context.Context, rows []core.DayRow) error
	}

	// SummaryReader returns what the mirror currently holds.
	SummaryReader interface {
		ReadSummary(ctx context.Context) ([]core.DayRow, error)
	}

	// Mirror is a target that can be both written and read back.
	Mirror interface {
		SummaryWriter
		SummaryReader
	}
)

// Header is the first row written to a mirrored summary.
var Header = []string{"Date", "Breakfast", "Lunch", "Snacks", "Dinner", "Beverage", "Protein Intake"}
