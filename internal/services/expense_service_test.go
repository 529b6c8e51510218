package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expbook/internal/amqp"
	"expbook/internal/core"
	applog "expbook/internal/log"
	"expbook/internal/store/memory"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []*amqp.ExpenseEvent
	err    error
	closed bool
}

func (f *fakePublisher) PublishExpenseEvent(_ context.Context, ev *amqp.ExpenseEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func (f *fakePublisher) types() []amqp.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]amqp.EventType, len(f.events))
	for i, ev := range f.events {
		out[i] = ev.Type
	}
	return out
}

func newService(pub EventPublisher) *ExpenseService {
	return NewExpenseService(memory.New(core.NewSequenceGenerator("exp")), pub, "$", applog.Discard())
}

func coffee() ExpenseInput {
	return ExpenseInput{Name: "Coffee", Amount: decimal.RequireFromString("3.50"), Date: "2024-01-01", Comment: "morning"}
}

func TestExpenseService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newService(pub)

	created, err := svc.CreateExpense(ctx, coffee())
	require.NoError(t, err)
	assert.Equal(t, "exp-1", created.ID)

	updated, err := svc.UpdateExpense(ctx, created.ID, ExpenseInput{
		Name: "Tea", Amount: decimal.RequireFromString("4.00"), Date: "2024-01-02", Comment: "afternoon",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := svc.GetExpense(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tea", got.Name)

	summary := svc.Summary(ctx)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, "$4.00", summary.Formatted)

	require.NoError(t, svc.DeleteExpense(ctx, created.ID))
	assert.Empty(t, svc.ListExpenses(ctx))

	assert.Equal(t, []amqp.EventType{amqp.EventCreated, amqp.EventUpdated, amqp.EventDeleted}, pub.types())
	deleted := pub.events[2]
	assert.Equal(t, "Tea", deleted.Name, "delete event carries the last known fields")
	assert.True(t, deleted.Amount.Equal(decimal.RequireFromString("4")))
}

func TestExpenseService_ErrorsAreWrappedAndNotPublished(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newService(pub)

	_, err := svc.CreateExpense(ctx, ExpenseInput{Name: "", Date: "2024-01-01"})
	require.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.UpdateExpense(ctx, "missing", coffee())
	require.ErrorIs(t, err, core.ErrNotFound)

	require.ErrorIs(t, svc.DeleteExpense(ctx, "missing"), core.ErrNotFound)

	_, err = svc.GetExpense(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotFound)

	assert.Empty(t, pub.types())
	assert.Equal(t, 0, svc.Summary(ctx).Count)
}

func TestExpenseService_PublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newService(pub)

	view, err := svc.CreateExpense(ctx, coffee())
	require.NoError(t, err)

	_, err = svc.GetExpense(ctx, view.ID)
	require.NoError(t, err)
}

func TestExpenseService_NilPublisher(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(memory.New(nil), nil, "€", nil)

	_, err := svc.CreateExpense(ctx, coffee())
	require.NoError(t, err)
	assert.Equal(t, "€3.50", svc.Summary(ctx).Formatted)
	require.NoError(t, svc.Close())
}

func TestExpenseService_Close(t *testing.T) {
	pub := &fakePublisher{}
	svc := newService(pub)
	require.NoError(t, svc.Close())
	assert.True(t, pub.closed)
}

func TestExpenseService_SummaryTotalsAllRecords(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	for _, a := range []string{"1200", "34.5", "-0.25"} {
		_, err := svc.CreateExpense(ctx, ExpenseInput{Name: "n", Amount: decimal.RequireFromString(a), Date: "d"})
		require.NoError(t, err)
	}
	s := svc.Summary(ctx)
	assert.Equal(t, 3, s.Count)
	assert.True(t, s.Total.Equal(decimal.RequireFromString("1234.25")))
	assert.Equal(t, "Expense Summary         Total charge: $1,234.25", s.Text())
}

func TestExpenseService_LogsThroughRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	reqLogger := applog.New(applog.Config{Level: slog.LevelDebug, Component: applog.ComponentHTTP, Output: &buf}).
		With(applog.FieldRequestID, "req_42")
	ctx := applog.NewContext(context.Background(), reqLogger)
	svc := newService(nil)

	_, err := svc.CreateExpense(ctx, coffee())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Expense created")
	assert.Contains(t, out, "request_id=req_42")
	assert.Contains(t, out, "component=expense")
}

func TestExpenseService_OverviewMatchesList(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	for _, a := range []string{"10", "2.5"} {
		_, err := svc.CreateExpense(ctx, ExpenseInput{Name: "n", Amount: decimal.RequireFromString(a), Date: "d"})
		require.NoError(t, err)
	}

	items, summary := svc.Overview(ctx)
	assert.Equal(t, svc.ListExpenses(ctx), items)
	assert.Equal(t, len(items), summary.Count)
	assert.Equal(t, "$12.50", summary.Formatted)
}
