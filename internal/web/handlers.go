package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/varun2123/client-wealth-insight/internal/domain"
	"github.com/varun2123/client-wealth-insight/internal/usecase"
	"go.uber.org/zap"
)

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.service.Summary())
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.service.Positions())
}

func (s *Server) handleCash(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"balances":  s.service.CashBalances(),
		"totalBase": s.service.CashTotalInBase(),
	})
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	s.writeJSON(w, s.service.Trades(limit))
}

func (s *Server) handleRecordTrade(w http.ResponseWriter, r *http.Request) {
	var trade domain.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	applied, err := s.service.RecordTrade(r.Context(), trade)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidQuantity) ||
			errors.Is(err, usecase.ErrInvalidPrice) ||
			errors.Is(err, usecase.ErrInvalidSide) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("Failed to record trade", zap.Error(err))
		http.Error(w, "Failed to record trade", http.StatusInternalServerError)
		return
	}

	s.metrics.TradesApplied.Inc()
	w.WriteHeader(http.StatusCreated)
	s.writeJSON(w, applied)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.service.Risk())
}

func (s *Server) handleBenchmarks(w http.ResponseWriter, r *http.Request) {
	period := domain.Period1Y
	if v := r.URL.Query().Get("period"); v != "" {
		period = domain.Period(v)
		if period.Days() == 0 {
			http.Error(w, "Unknown period", http.StatusBadRequest)
			return
		}
	}
	s.writeJSON(w, s.service.Benchmarks(period))
}

// handleRecordObservation appends one day's portfolio and benchmark closing
// values to the comparison series.
func (s *Server) handleRecordObservation(w http.ResponseWriter, r *http.Request) {
	var obs domain.BenchmarkObservation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", obs.Date); err != nil {
		http.Error(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	if err := s.service.RecordObservation(r.Context(), obs); err != nil {
		s.logger.Error("Failed to record observation", zap.Error(err))
		http.Error(w, "Failed to record observation", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	s.writeJSON(w, obs)
}

// handleImport accepts a multipart upload with optional "positions", "trades"
// and "cash" CSV parts and replaces the portfolio snapshot with their content.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	var data usecase.ImportResult

	if f, _, err := r.FormFile("positions"); err == nil {
		defer f.Close()
		positions, err := usecase.ParsePositions(f)
		if err != nil {
			http.Error(w, "Invalid positions sheet: "+err.Error(), http.StatusBadRequest)
			return
		}
		data.Positions = positions
	}
	if f, _, err := r.FormFile("trades"); err == nil {
		defer f.Close()
		trades, err := usecase.ParseTrades(f)
		if err != nil {
			http.Error(w, "Invalid trades sheet: "+err.Error(), http.StatusBadRequest)
			return
		}
		data.Trades = trades
	}
	if f, _, err := r.FormFile("cash"); err == nil {
		defer f.Close()
		cash, err := usecase.ParseCashBalances(f)
		if err != nil {
			http.Error(w, "Invalid cash sheet: "+err.Error(), http.StatusBadRequest)
			return
		}
		data.Cash = cash
	}

	if err := s.service.ImportData(r.Context(), data); err != nil {
		s.logger.Error("Failed to import data", zap.Error(err))
		http.Error(w, "Failed to import data", http.StatusInternalServerError)
		return
	}

	s.metrics.ImportedRows.WithLabelValues("positions").Add(float64(len(data.Positions)))
	s.metrics.ImportedRows.WithLabelValues("trades").Add(float64(len(data.Trades)))
	s.metrics.ImportedRows.WithLabelValues("cash").Add(float64(len(data.Cash)))

	s.writeJSON(w, map[string]int{
		"positions": len(data.Positions),
		"trades":    len(data.Trades),
		"cash":      len(data.Cash),
	})
}
