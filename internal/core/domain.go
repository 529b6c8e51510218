package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// Expense is one recorded transaction. The ID is fixed at construction;
	// every other field can be changed in place.
	Expense struct {
		id      string
		name    string
		amount  decimal.Decimal
		date    string // free-form, not parsed as a calendar date
		comment string
	}

	// ExpenseView is a detached copy of an Expense handed out to readers.
	ExpenseView struct {
		ID      string          `json:"id"`
		Name    string          `json:"name"`
		Amount  decimal.Decimal `json:"amount"`
		Date    string          `json:"date"`
		Comment string          `json:"comment"`
	}
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("expense not found")

	// ErrDuplicateID means the id generator kept returning ids in use.
	ErrDuplicateID = errors.New("duplicate expense id")

	ErrEmptyName = fmt.Errorf("%w: empty name", ErrValidation)
	ErrEmptyDate = fmt.Errorf("%w: empty date", ErrValidation)
)

// NewExpense builds a record with a fresh id from gen. It does not validate.
func NewExpense(gen IDGenerator, name string, amount decimal.Decimal, date, comment string) *Expense {
	return &Expense{
		id:      gen.NewID(),
		name:    name,
		amount:  amount,
		date:    date,
		comment: comment,
	}
}

func (e *Expense) ID() string              { return e.id }
func (e *Expense) Name() string            { return e.name }
func (e *Expense) Amount() decimal.Decimal { return e.amount }
func (e *Expense) Date() string            { return e.date }
func (e *Expense) Comment() string         { return e.comment }

func (e *Expense) SetName(name string)              { e.name = name }
func (e *Expense) SetAmount(amount decimal.Decimal) { e.amount = amount }
func (e *Expense) SetDate(date string)              { e.date = date }
func (e *Expense) SetComment(comment string)        { e.comment = comment }

// String renders the record as a four-line text block.
func (e *Expense) String() string {
	return e.Snapshot().String()
}

// Snapshot returns a copy that shares no state with the record.
func (e *Expense) Snapshot() ExpenseView {
	return ExpenseView{
		ID:      e.id,
		Name:    e.name,
		Amount:  e.amount,
		Date:    e.date,
		Comment: e.comment,
	}
}

func (v ExpenseView) String() string {
	return "Name: " + v.Name +
		"\nAmount: $" + v.Amount.String() +
		"\nDate: " + v.Date +
		"\nComment: " + v.Comment
}

func (e *Expense) Validate() error {
	return ValidateFields(e.name, e.date)
}

// ValidateFields applies the admission rule shared by add and update:
// name and date must be non-empty once surrounding whitespace is removed.
func ValidateFields(name, date string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(date) == "" {
		return ErrEmptyDate
	}
	return nil
}
