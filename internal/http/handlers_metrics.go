package http

import (
	"fmt"
	"net/http"

	"fintrack/internal/core"
)

// Metric responses are cached per (version, currency); any mutation bumps
// the service version, so a stale entry can never be served.

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	currency := s.currencyFor(r)
	key := s.cacheKey(currency, "")

	if summary, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary := s.service.Summary(currency)
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDrillDown(w http.ResponseWriter, r *http.Request) {
	kind := core.MetricKind(r.PathValue("kind"))
	if !core.ValidMetricKind(kind) {
		writeError(w, http.StatusNotFound, "unknown metric "+string(kind))
		return
	}

	currency := s.currencyFor(r)
	key := s.cacheKey(currency, string(kind))

	if items, ok := s.itemsCache.Get(key); ok {
		writeJSON(w, http.StatusOK, items)
		return
	}

	items, err := s.service.DrillDownItems(kind, currency)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []core.LineItem{}
	}
	s.itemsCache.Set(key, items)
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) cacheKey(currency core.CurrencyCode, suffix string) string {
	return fmt.Sprintf("%d:%s:%s", s.service.Version(), currency, suffix)
}
