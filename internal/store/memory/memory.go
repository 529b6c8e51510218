package memory

import (
	"context"
	"fmt"
	"sync"

	"expbook/internal/core"
	"expbook/internal/store"

	"github.com/shopspring/decimal"
)

// Store holds the expense collection in insertion order. Every operation
// runs under one mutex, so readers never observe a record mid-update.
type Store struct {
	mu    sync.Mutex
	ids   core.IDGenerator
	items []*core.Expense
}

// New returns an empty store. A nil generator defaults to random UUIDs.
func New(ids core.IDGenerator) *Store {
	if ids == nil {
		ids = core.UUIDGenerator{}
	}
	return &Store{ids: ids}
}

// maxIDAttempts bounds how often Add asks the generator for an unused id.
const maxIDAttempts = 8

// Add validates the fields and appends a new expense. Ids already present
// in the store are never handed out twice.
func (s *Store) Add(_ context.Context, name string, amount decimal.Decimal, date, comment string) (string, error) {
	if err := core.ValidateFields(name, date); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for range maxIDAttempts {
		e := core.NewExpense(s.ids, name, amount, date, comment)
		if s.indexOf(e.ID()) >= 0 {
			continue
		}
		s.items = append(s.items, e)
		return e.ID(), nil
	}
	return "", fmt.Errorf("add %q: %w after %d attempts", name, core.ErrDuplicateID, maxIDAttempts)
}

// Update overwrites all four mutable fields in place. The id and the
// position in the list are unchanged.
func (s *Store) Update(_ context.Context, id, name string, amount decimal.Decimal, date, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update %q: %w", id, core.ErrNotFound)
	}
	if err := core.ValidateFields(name, date); err != nil {
		return err
	}
	e := s.items[i]
	e.SetName(name)
	e.SetAmount(amount)
	e.SetDate(date)
	e.SetComment(comment)
	return nil
}

// Remove deletes the expense with the given id and returns its last state.
func (s *Store) Remove(_ context.Context, id string) (core.ExpenseView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return core.ExpenseView{}, fmt.Errorf("remove %q: %w", id, core.ErrNotFound)
	}
	removed := s.items[i].Snapshot()
	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return removed, nil
}

func (s *Store) FindByID(_ context.Context, id string) (core.ExpenseView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return core.ExpenseView{}, fmt.Errorf("find %q: %w", id, core.ErrNotFound)
	}
	return s.items[i].Snapshot(), nil
}

// All returns copies of every expense in insertion order.
func (s *Store) All(_ context.Context) []core.ExpenseView {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.ExpenseView, len(s.items))
	for i, e := range s.items {
		out[i] = e.Snapshot()
	}
	return out
}

// Total sums the amounts in insertion order.
func (s *Store) Total(_ context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, e := range s.items {
		total = total.Add(e.Amount())
	}
	return total
}

// Snapshot returns every expense and their total as of one instant.
func (s *Store) Snapshot(_ context.Context) store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := store.Snapshot{
		Items: make([]core.ExpenseView, len(s.items)),
		Total: decimal.Zero,
	}
	for i, e := range s.items {
		snap.Items[i] = e.Snapshot()
		snap.Total = snap.Total.Add(e.Amount())
	}
	return snap
}

func (s *Store) Len(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	for i, e := range s.items {
		if e.ID() == id {
			return i
		}
	}
	return -1
}
