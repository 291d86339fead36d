package http

import (
	"net/http"

	"ledger/internal/core"
)

type reportView struct {
	Ledger         []transactionView                 `json:"ledger"`
	MonthlyIncome  map[core.Month]float64            `json:"monthly_income"`
	MonthlyExpense map[core.Month]float64            `json:"monthly_expense"`
	CategoryTotals map[core.Month]map[string]float64 `json:"category_totals"`
	CardTotals     map[core.Month]map[string]float64 `json:"card_totals"`
	CashTotals     map[core.Month]float64            `json:"cash_totals"`
	Months         []core.Month                      `json:"months"`
}

// handleReport builds the aggregated view for the filter spec in the query
// string. Results are cached per fingerprint until the next mutation.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilterSpec(r.URL.Query())
	if err != nil {
		s.writeBadRequest(w, r, err.Error())
		return
	}
	descending := r.URL.Query().Get("order") == "desc"

	key := reportCacheKey(spec, descending)
	if cached, found := s.reportCache.Get(key); key != "" && found {
		s.logger.DebugContext(r.Context(), "Report cache hit", "key", key)
		s.writeJSON(w, r, http.StatusOK, cached.(reportView))
		return
	}

	report, err := s.svc.BuildReport(r.Context(), spec, descending)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := reportView{
		Ledger:         toTransactionViews(report.Ledger),
		MonthlyIncome:  report.MonthlyIncome,
		MonthlyExpense: report.MonthlyExpense,
		CategoryTotals: report.CategoryTotals,
		CardTotals:     report.CardTotals,
		CashTotals:     report.CashTotals,
		Months:         report.Months,
	}

	if key != "" {
		s.reportCache.SetDefault(key, view)
	}
	s.writeJSON(w, r, http.StatusOK, view)
}

// reportCacheKey derives a stable fingerprint for a spec and sort order.
// An empty key disables caching for that request.
func reportCacheKey(spec core.FilterSpec, descending bool) string {
	order := "asc"
	if descending {
		order = "desc"
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		return ""
	}
	return "report:" + order + ":" + string(raw)
}
