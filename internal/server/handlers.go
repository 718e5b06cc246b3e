package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marketmind/advisor/internal/advisor"
	"github.com/marketmind/advisor/internal/allocation"
	"github.com/marketmind/advisor/internal/analysis"
	"github.com/marketmind/advisor/internal/marketdata"
	"github.com/marketmind/advisor/internal/universe"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "marketmind-advisor",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleRecommendations returns the top-n stocks by growth potential.
// Query params: n (default from config), range (default 3mo).
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "n", s.cfg.DefaultRecommendations)
	rng, ok := queryRange(r, marketdata.Range3Mo)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid range")
		return
	}

	analyses, err := s.advisor.Recommend(r.Context(), n, rng)
	if err != nil {
		s.log.Error().Err(err).Msg("Recommendation failed")
		s.writeError(w, http.StatusInternalServerError, "recommendation failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":           len(analyses),
		"recommendations": analyses,
	})
}

// handleBudgetPlan returns single-stock options and the greedy portfolio
// for a budget. Query params: budget (required), range (default 3mo).
func (s *Server) handleBudgetPlan(w http.ResponseWriter, r *http.Request) {
	budget, err := strconv.ParseFloat(r.URL.Query().Get("budget"), 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "budget is required and must be a number")
		return
	}

	rng, ok := queryRange(r, marketdata.Range3Mo)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid range")
		return
	}

	plan, err := s.advisor.PlanBudget(r.Context(), budget, rng)
	if err != nil {
		if errors.Is(err, allocation.ErrInvalidBudget) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("Budget planning failed")
		s.writeError(w, http.StatusInternalServerError, "budget planning failed")
		return
	}

	s.writeJSON(w, http.StatusOK, plan)
}

// handleAsk answers a free-form question.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "body must be {\"query\": \"...\"}")
		return
	}

	reply, err := s.advisor.Answer(r.Context(), req.Query)
	if err != nil {
		var notFound *advisor.ErrCompanyNotFound
		if errors.As(err, &notFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, allocation.ErrInvalidBudget) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("query", req.Query).Msg("Query answering failed")
		s.writeError(w, http.StatusInternalServerError, "could not answer the query")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"query":  req.Query,
		"answer": reply,
	})
}

// handleCompanies lists the active universe.
func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.companies.GetAllActive()
	if err != nil {
		s.log.Error().Err(err).Msg("Company listing failed")
		s.writeError(w, http.StatusInternalServerError, "company listing failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(companies),
		"companies": companies,
	})
}

// handleAnalysis returns the full analysis of one symbol.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	company, ok := s.lookupCompany(w, r)
	if !ok {
		return
	}

	rng, rok := queryRange(r, marketdata.Range3Mo)
	if !rok {
		s.writeError(w, http.StatusBadRequest, "invalid range")
		return
	}

	a, err := s.advisor.AnalyzeSymbol(r.Context(), company.Symbol, company.YahooSymbol, rng)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, a)
}

// handleRisk returns the risk assessment of one symbol.
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	company, ok := s.lookupCompany(w, r)
	if !ok {
		return
	}

	rng, rok := queryRange(r, marketdata.Range3Mo)
	if !rok {
		s.writeError(w, http.StatusBadRequest, "invalid range")
		return
	}

	a, err := s.advisor.AnalyzeSymbol(r.Context(), company.Symbol, company.YahooSymbol, rng)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":     company.Symbol,
		"assessment": analysis.AssessRisk(a),
	})
}

// handleIntraday returns the day-trading session summary of one symbol.
func (s *Server) handleIntraday(w http.ResponseWriter, r *http.Request) {
	company, ok := s.lookupCompany(w, r)
	if !ok {
		return
	}

	ia, err := s.advisor.IntradaySymbol(r.Context(), company.Symbol, company.YahooSymbol)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ia)
}

// handleSystemStatus handles system status requests
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := map[string]interface{}{
		"status": "running",
		"memory": map[string]interface{}{
			"alloc_mb":       m.Alloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
			"sys_mb":         m.Sys / 1024 / 1024,
			"num_gc":         m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}

	if s.sched != nil {
		response["jobs"] = s.sched.JobNames()
	}

	s.writeJSON(w, http.StatusOK, response)
}

// lookupCompany resolves the {symbol} route param against the universe.
func (s *Server) lookupCompany(w http.ResponseWriter, r *http.Request) (*universe.Company, bool) {
	symbol := chi.URLParam(r, "symbol")

	company, err := s.companies.GetBySymbol(symbol)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Company lookup failed")
		s.writeError(w, http.StatusInternalServerError, "company lookup failed")
		return nil, false
	}
	if company == nil {
		s.writeError(w, http.StatusNotFound, "unknown symbol")
		return nil, false
	}

	return company, true
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, marketdata.ErrNoData), errors.Is(err, analysis.ErrInsufficientData):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Msg("Analysis failed")
		s.writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

var validRanges = map[marketdata.Range]bool{
	marketdata.Range1D:  true,
	marketdata.Range5D:  true,
	marketdata.Range1Mo: true,
	marketdata.Range3Mo: true,
	marketdata.Range6Mo: true,
	marketdata.Range1Y:  true,
	marketdata.Range5Y:  true,
}

func queryRange(r *http.Request, fallback marketdata.Range) (marketdata.Range, bool) {
	raw := r.URL.Query().Get("range")
	if raw == "" {
		return fallback, true
	}
	rng := marketdata.Range(raw)
	if !validRanges[rng] {
		return "", false
	}
	return rng, true
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
