package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"expbook/internal/amqp"
	"expbook/internal/core"
	applog "expbook/internal/log"
	"expbook/internal/store"
)

// EventPublisher receives a notification after every successful mutation.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event *amqp.ExpenseEvent) error
	Close() error
}

// ExpenseInput holds the user-editable fields of an expense.
type ExpenseInput struct {
	Name    string
	Amount  decimal.Decimal
	Date    string
	Comment string
}

// ExpenseService orchestrates the expense collection and change events
type ExpenseService struct {
	collection store.Collection
	publisher  EventPublisher
	currency   string
	logger     *applog.Logger
}

// NewExpenseService wires the collection with an optional publisher.
// A nil logger falls back to the default slog logger.
func NewExpenseService(collection store.Collection, publisher EventPublisher, currencySymbol string, logger *applog.Logger) *ExpenseService {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &ExpenseService{
		collection: collection,
		publisher:  publisher,
		currency:   currencySymbol,
		logger:     logger.WithComponent(applog.ComponentExpense),
	}
}

// CreateExpense adds an expense and publishes a created event.
func (s *ExpenseService) CreateExpense(ctx context.Context, in ExpenseInput) (core.ExpenseView, error) {
	id, err := s.collection.Add(ctx, in.Name, in.Amount, in.Date, in.Comment)
	if err != nil {
		s.logFailure(ctx, "Failed to create expense", err, applog.OpCreate, "")
		return core.ExpenseView{}, fmt.Errorf("create expense: %w", err)
	}

	view := in.view(id)
	s.log(ctx).InfoContext(ctx, "Expense created",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithExpense(view.ID, view.Name, view.Amount.String(), view.Date).
			ToSlice()...)

	s.publish(ctx, amqp.EventCreated, view)
	return view, nil
}

// UpdateExpense overwrites the fields of an existing expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, in ExpenseInput) (core.ExpenseView, error) {
	if err := s.collection.Update(ctx, id, in.Name, in.Amount, in.Date, in.Comment); err != nil {
		s.logFailure(ctx, "Failed to update expense", err, applog.OpUpdate, id)
		return core.ExpenseView{}, fmt.Errorf("update expense: %w", err)
	}

	view := in.view(id)
	s.log(ctx).InfoContext(ctx, "Expense updated",
		applog.NewFields().
			WithOperation(applog.OpUpdate).
			WithExpense(view.ID, view.Name, view.Amount.String(), view.Date).
			ToSlice()...)

	s.publish(ctx, amqp.EventUpdated, view)
	return view, nil
}

// DeleteExpense removes an expense and publishes its last known state.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	view, err := s.collection.Remove(ctx, id)
	if err != nil {
		s.logFailure(ctx, "Failed to delete expense", err, applog.OpDelete, id)
		return fmt.Errorf("delete expense: %w", err)
	}

	s.log(ctx).InfoContext(ctx, "Expense deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id)

	s.publish(ctx, amqp.EventDeleted, view)
	return nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id string) (core.ExpenseView, error) {
	view, err := s.collection.FindByID(ctx, id)
	if err != nil {
		s.logFailure(ctx, "Failed to read expense", err, applog.OpRead, id)
		return core.ExpenseView{}, fmt.Errorf("get expense: %w", err)
	}
	return view, nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context) []core.ExpenseView {
	return s.collection.All(ctx)
}

// Overview returns the list together with its summary, both taken from
// the same state of the collection.
func (s *ExpenseService) Overview(ctx context.Context) ([]core.ExpenseView, core.Summary) {
	snap := s.collection.Snapshot(ctx)
	summary := core.NewSummary(len(snap.Items), snap.Total, s.currency)
	s.log(ctx).DebugContext(ctx, "Expenses listed",
		applog.FieldOperation, applog.OpList,
		applog.FieldCount, summary.Count,
		applog.FieldTotal, summary.Total.String())
	return snap.Items, summary
}

// Summary returns the running total formatted for display.
func (s *ExpenseService) Summary(ctx context.Context) core.Summary {
	snap := s.collection.Snapshot(ctx)
	summary := core.NewSummary(len(snap.Items), snap.Total, s.currency)
	s.log(ctx).DebugContext(ctx, "Summary computed",
		applog.FieldOperation, applog.OpSummary,
		applog.FieldCount, summary.Count,
		applog.FieldTotal, summary.Total.String())
	return summary
}

// publish never fails the caller: the collection is already updated.
func (s *ExpenseService) publish(ctx context.Context, t amqp.EventType, view core.ExpenseView) {
	if s.publisher == nil {
		s.log(ctx).DebugContext(ctx, "Event publisher not configured, skipping event",
			applog.FieldEventType, string(t))
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, amqp.NewExpenseEvent(t, view)); err != nil {
		fields := applog.NewFields().
			WithOperation(applog.OpPublish).
			WithError(err)
		fields[applog.FieldEventType] = string(t)
		fields[applog.FieldExpenseID] = view.ID
		fields[applog.FieldErrorType] = applog.ErrorTypeNetwork
		s.log(ctx).ErrorContext(ctx, "Failed to publish expense event", fields.ToSlice()...)
	}
}

func (s *ExpenseService) logFailure(ctx context.Context, msg string, err error, op, id string) {
	fields := applog.NewFields().WithOperation(op).WithError(err)
	if id != "" {
		fields[applog.FieldExpenseID] = id
	}
	switch {
	case errors.Is(err, core.ErrValidation):
		fields[applog.FieldErrorType] = applog.ErrorTypeValidation
	case errors.Is(err, core.ErrNotFound):
		fields[applog.FieldErrorType] = applog.ErrorTypeNotFound
	default:
		fields[applog.FieldErrorType] = applog.ErrorTypeInternal
	}
	s.log(ctx).WarnContext(ctx, msg, fields.ToSlice()...)
}

// log prefers the request-scoped logger carried by ctx so request ids end up
// on service log lines.
func (s *ExpenseService) log(ctx context.Context) *applog.Logger {
	if l, ok := applog.FromContextOK(ctx); ok {
		return l.WithComponent(applog.ComponentExpense)
	}
	return s.logger
}

func (in ExpenseInput) view(id string) core.ExpenseView {
	return core.ExpenseView{
		ID:      id,
		Name:    in.Name,
		Amount:  in.Amount,
		Date:    in.Date,
		Comment: in.Comment,
	}
}

// Close releases the publisher.
func (s *ExpenseService) Close() error {
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close expense service: publisher: %w", err)
	}
	return nil
}
