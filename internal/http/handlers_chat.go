package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/assistant"
	"fintrack/internal/core"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    string `json:"reply"`
	Intent   string `json:"intent"`
	RecordID string `json:"recordId,omitempty"`
}

// handleChat routes a chat message through the assistant. Whatever action
// the model produces is applied through the exact same service methods the
// record endpoints use; the assistant gets no privileged mutation path.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	now := time.Now()
	var action *assistant.Action
	if s.model != nil {
		parsed, err := s.model.ParseMessage(r.Context(), req.Message, now)
		if err != nil {
			slog.WarnContext(r.Context(), "Assistant unavailable, using fallback parser",
				"component", "assistant", "error", err)
		} else {
			action = parsed
		}
	}
	if action == nil {
		action = assistant.ParseFallback(req.Message, s.displayCurrency)
	}

	resp := chatResponse{Intent: action.Intent, Reply: action.Reply}

	switch action.Intent {
	case assistant.IntentAddExpense:
		expense, err := action.Expense.ToExpense(s.displayCurrency, now)
		if err == nil {
			expense, err = s.service.AddExpense(r.Context(), expense)
		}
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "could not record expense: "+err.Error())
			return
		}
		resp.RecordID = expense.ID
		if resp.Reply == "" {
			resp.Reply = fmt.Sprintf("Recorded expense %q (%s).", expense.Title,
				money(expense.Amount, expense.Currency))
		}

	case assistant.IntentAddDebt:
		debt, err := action.Debt.ToDebt(s.displayCurrency, now)
		if err == nil {
			debt, err = s.service.AddDebt(r.Context(), debt)
		}
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "could not record debt: "+err.Error())
			return
		}
		resp.RecordID = debt.ID
		if resp.Reply == "" {
			resp.Reply = fmt.Sprintf("Recorded debt %q (%s).", debt.Title,
				money(debt.TotalAmount, debt.Currency))
		}

	case assistant.IntentAddAsset:
		asset, err := action.Asset.ToAsset(s.displayCurrency, now)
		if err == nil {
			asset, err = s.service.AddAsset(r.Context(), asset)
		}
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "could not record asset: "+err.Error())
			return
		}
		resp.RecordID = asset.ID
		if resp.Reply == "" {
			resp.Reply = fmt.Sprintf("Recorded %s %q (%s).", asset.Type, asset.Title,
				money(asset.Amount, asset.Currency))
		}

	case assistant.IntentAddGoal:
		goal, err := action.Goal.ToGoal(s.displayCurrency, now)
		if err == nil {
			goal, err = s.service.AddGoal(r.Context(), goal)
		}
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "could not record goal: "+err.Error())
			return
		}
		resp.RecordID = goal.ID
		if resp.Reply == "" {
			resp.Reply = fmt.Sprintf("Savings goal %q set (%s).", goal.Title,
				money(goal.TargetAmount, goal.Currency))
		}

	case assistant.IntentQueryMetrics:
		summary := s.service.Summary(s.displayCurrency)
		resp.Reply = fmt.Sprintf(
			"Net worth %s, projected end-of-month balance %s, monthly result %s, total debt %s.",
			money(summary.NetWorth, summary.Currency),
			money(summary.ProjectedBalance, summary.Currency),
			money(summary.MonthlyResult, summary.Currency),
			money(summary.TotalDebt, summary.Currency))

	default:
		if resp.Reply == "" {
			resp.Reply = "I did not understand that. Try something like: spent 50 USD on groceries."
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func money(amount float64, currency core.CurrencyCode) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}
