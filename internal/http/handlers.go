package http

import (
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Snapshot().Debts)
}

func (s *Server) handleAddDebt(w http.ResponseWriter, r *http.Request) {
	var d core.Debt
	if !decodeBody(w, r, &d) {
		return
	}
	created, err := s.service.AddDebt(r.Context(), d)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	var d core.Debt
	if !decodeBody(w, r, &d) {
		return
	}
	d.ID = r.PathValue("id")
	if err := s.service.UpdateDebt(r.Context(), d); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteDebt(r.Context(), r.PathValue("id")); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Snapshot().Expenses)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if !decodeBody(w, r, &e) {
		return
	}
	created, err := s.service.AddExpense(r.Context(), e)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if !decodeBody(w, r, &e) {
		return
	}
	e.ID = r.PathValue("id")
	if err := s.service.UpdateExpense(r.Context(), e); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Snapshot().Assets)
}

func (s *Server) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	var a core.Asset
	if !decodeBody(w, r, &a) {
		return
	}
	created, err := s.service.AddAsset(r.Context(), a)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	var a core.Asset
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = r.PathValue("id")
	if err := s.service.UpdateAsset(r.Context(), a); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteAsset(r.Context(), r.PathValue("id")); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Snapshot().Goals)
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var g core.Goal
	if !decodeBody(w, r, &g) {
		return
	}
	created, err := s.service.AddGoal(r.Context(), g)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var g core.Goal
	if !decodeBody(w, r, &g) {
		return
	}
	g.ID = r.PathValue("id")
	if err := s.service.UpdateGoal(r.Context(), g); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := s.service.Notifications()
	if notifications == nil {
		notifications = []core.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleAckNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Acknowledge(r.Context(), r.PathValue("id")); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Rates())
}

func (s *Server) handlePutRates(w http.ResponseWriter, r *http.Request) {
	var rates core.RateTable
	if !decodeBody(w, r, &rates) {
		return
	}
	if err := s.service.SetRates(r.Context(), rates); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rates)
}
