package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cashflow/internal/categories"
	"cashflow/internal/core"
	"cashflow/internal/insights"
	"cashflow/internal/ledger"
	applog "cashflow/internal/log"
	"cashflow/internal/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := s.store.Categories(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.listTransactions(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List transactions failed",
			applog.NewFields().WithOperation(applog.OpList).WithError(err).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	resp := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())

	tx, err := parseCreateTransaction(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// The filter layer treats categories as opaque strings; only creation
	// is gated on the chart.
	if !categories.Contains(tx.Category) {
		writeError(w, http.StatusUnprocessableEntity, "unknown category "+strconv.Quote(tx.Category))
		return
	}

	id, err := s.store.Append(r.Context(), tx)
	if err != nil {
		logger.ErrorContext(r.Context(), "Append transaction failed",
			applog.NewFields().
				WithOperation(applog.OpCreate).
				WithTransaction("", tx.Description, tx.Amount.Cents, string(tx.Type), tx.Category).
				WithError(err).
				ToSlice()...)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.invalidateViews()
	s.collector.TransactionCreated()

	tx.ID = id
	logger.InfoContext(r.Context(), "Transaction created",
		applog.NewFields().
			WithOperation(applog.OpCreate).
			WithTransaction(id, tx.Description, tx.Amount.Cents, string(tx.Type), tx.Category).
			ToSlice()...)

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		fields := applog.NewFields().WithOperation(applog.OpDelete).WithError(err)
		fields[applog.FieldTransactionID] = id
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Delete transaction failed",
			fields.ToSlice()...)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateViews()
	s.collector.TransactionDeleted()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	const key = "all"
	if sum, ok := s.summaryCache.Get(key); ok {
		s.collector.CacheHit("summary")
		writeJSON(w, http.StatusOK, toSummaryResponse(sum))
		return
	}
	s.collector.CacheMiss("summary")

	txs, err := s.listTransactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	sum := core.Summarize(txs)
	s.summaryCache.Set(key, sum)
	writeJSON(w, http.StatusOK, toSummaryResponse(sum))
}

// computeReport resolves the filters against the collection, memoizing
// per filter combination.
func (s *Server) computeReport(ctx context.Context, f core.ReportFilters) (core.Report, error) {
	key := reportCacheKey(f)
	if rep, ok := s.reportCache.Get(key); ok {
		s.collector.CacheHit("report")
		return rep, nil
	}
	s.collector.CacheMiss("report")

	txs, err := s.listTransactions(ctx)
	if err != nil {
		return core.Report{}, err
	}

	rep := core.FilterReport(txs, f)
	s.reportCache.Set(key, rep)
	s.collector.ReportComputed()
	return rep, nil
}

func reportCacheKey(f core.ReportFilters) string {
	return f.Start.Format(dateLayout) + "|" + f.End.Format(dateLayout) + "|" + f.Type + "|" + f.Category
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	f, err := parseReportFilters(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.computeReport(r.Context(), f)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Report computation failed",
			applog.FieldOperation, applog.OpReport, applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to compute report")
		return
	}

	writeJSON(w, http.StatusOK, toReportResponse(rep, f))
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	f, err := parseReportFilters(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.computeReport(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute report")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(time.Now())+`"`)
	if err := report.WriteCSV(w, rep); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "CSV export failed",
			applog.FieldOperation, applog.OpReport, applog.FieldError, err)
	}
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeError(w, http.StatusNotImplemented, "insights are not configured")
		return
	}

	f, err := parseReportFilters(r, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.computeReport(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute report")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()
	text, err := s.analyzer.AnalyzeReport(ctx, rep, f)
	if err != nil {
		if errors.Is(err, insights.ErrEmptyReport) {
			writeError(w, http.StatusUnprocessableEntity, "no transactions in the selected period")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Insights generation failed",
			applog.FieldError, err)
		writeError(w, http.StatusBadGateway, "failed to generate insights")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"insights": text})
}
