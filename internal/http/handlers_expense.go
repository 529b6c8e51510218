package http

import (
	"errors"
	"net/http"
	"time"

	"expbook/internal/core"
)

// errNoSelection is returned when an edit or delete names no expense.
var errNoSelection = errors.New("no expense selected")

type expenseResponse struct {
	core.ExpenseView
	Display string `json:"display"`
}

type summaryResponse struct {
	core.Summary
	Line string `json:"text"`
}

type listResponse struct {
	Expenses []expenseResponse `json:"expenses"`
	Summary  summaryResponse   `json:"summary"`
}

func newExpenseResponse(v core.ExpenseView) expenseResponse {
	return expenseResponse{ExpenseView: v, Display: v.String()}
}

func newSummaryResponse(s core.Summary) summaryResponse {
	return summaryResponse{Summary: s, Line: s.Text()}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	views, summary := s.expenses.Overview(r.Context())
	resp := listResponse{
		Expenses: make([]expenseResponse, 0, len(views)),
		Summary:  newSummaryResponse(summary),
	}
	for _, v := range views {
		resp.Expenses = append(resp.Expenses, newExpenseResponse(v))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newSummaryResponse(s.expenses.Summary(r.Context())))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, err := parseExpenseInput(w, r)
	if err != nil {
		writeInputError(w, r, err)
		return
	}

	view, err := s.expenses.CreateExpense(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/expenses/"+view.ID)
	writeJSON(w, r, http.StatusCreated, newExpenseResponse(view))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == "" {
		handleNoSelection(w, r)
		return
	}

	view, err := s.expenses.GetExpense(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newExpenseResponse(view))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == "" {
		handleNoSelection(w, r)
		return
	}

	in, err := parseExpenseInput(w, r)
	if err != nil {
		writeInputError(w, r, err)
		return
	}

	view, err := s.expenses.UpdateExpense(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newExpenseResponse(view))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == "" {
		handleNoSelection(w, r)
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleNoSelection(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusBadRequest, errNoSelection.Error())
}

// writeInputError reports body problems: bad amounts are unprocessable,
// anything else is a malformed request.
func writeInputError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &maxErr):
		writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		writeError(w, r, http.StatusBadRequest, err.Error())
	}
}
