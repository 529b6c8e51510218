package store

import (
	"context"

	"expbook/internal/core"

	"github.com/shopspring/decimal"
)

// Ports consumed by the service and HTTP layers.
type (
	ExpenseAdder interface {
		// Add validates and appends a new expense, returning its id.
		Add(ctx context.Context, name string, amount decimal.Decimal, date, comment string) (id string, err error)
	}

	ExpenseUpdater interface {
		// Update overwrites the mutable fields of the expense with the given id.
		Update(ctx context.Context, id, name string, amount decimal.Decimal, date, comment string) error
	}

	ExpenseRemover interface {
		// Remove deletes the expense and returns the state it had.
		Remove(ctx context.Context, id string) (core.ExpenseView, error)
	}

	ExpenseFinder interface {
		// FindByID returns core.ErrNotFound when no expense has the id.
		FindByID(ctx context.Context, id string) (core.ExpenseView, error)
	}

	// ExpenseLister returns every expense in insertion order.
	ExpenseLister interface {
		All(ctx context.Context) []core.ExpenseView
	}

	TotalReader interface {
		Total(ctx context.Context) decimal.Decimal
		Len(ctx context.Context) int
	}

	// Snapshotter reads the list and its total atomically.
	Snapshotter interface {
		Snapshot(ctx context.Context) Snapshot
	}

	// Collection is the full set of operations a list-editing UI needs.
	Collection interface {
		ExpenseAdder
		ExpenseUpdater
		ExpenseRemover
		ExpenseFinder
		ExpenseLister
		TotalReader
		Snapshotter
	}
)

// Snapshot is the whole collection as seen by one reader.
type Snapshot struct {
	Items []core.ExpenseView
	Total decimal.Decimal
}
