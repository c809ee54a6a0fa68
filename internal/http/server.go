package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"cashflow/internal/auth"
	"cashflow/internal/cache"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
	"cashflow/internal/metrics"
)

// ReportAnalyzer produces a narrative commentary for a filtered report.
type ReportAnalyzer interface {
	AnalyzeReport(ctx context.Context, r core.Report, f core.ReportFilters) (string, error)
}

// Server serves the transaction API. Derived views (summary, report) are
// memoized in LRU caches that are purged whenever the collection changes.
type Server struct {
	http.Server
	store       ledger.Store
	verifier    *auth.Verifier
	analyzer    ReportAnalyzer
	collector   *metrics.Collector
	rateLimiter *rateLimiter

	listCache    *cache.LRU[[]core.Transaction]
	summaryCache *cache.LRU[core.Summary]
	reportCache  *cache.LRU[core.Report]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Options configures optional server collaborators. A nil Verifier leaves
// the API unauthenticated; a nil Analyzer disables the insights endpoint.
type Options struct {
	Verifier *auth.Verifier
	Analyzer ReportAnalyzer
	Metrics  *metrics.Collector
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, store ledger.Store, opts Options) *Server {
	collector := opts.Metrics
	if collector == nil {
		collector = metrics.NewCollector("cashflow")
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		store:       store,
		verifier:    opts.Verifier,
		analyzer:    opts.Analyzer,
		collector:   collector,
		rateLimiter: newRateLimiter(),

		listCache:    cache.NewLRU[[]core.Transaction](1, 2*time.Minute),
		summaryCache: cache.NewLRU[core.Summary](1, 2*time.Minute),
		reportCache:  cache.NewLRU[core.Report](200, 2*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.listCache)
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.collector.Handler())

	mux.HandleFunc("GET /api/transactions", s.withCommon(s.requireAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withCommon(s.requireAuth(s.handleCreateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withCommon(s.requireAuth(s.handleDeleteTransaction)))
	mux.HandleFunc("GET /api/categories", s.withCommon(s.requireAuth(s.handleCategories)))
	mux.HandleFunc("GET /api/summary", s.withCommon(s.requireAuth(s.handleSummary)))
	mux.HandleFunc("GET /api/report", s.withCommon(s.requireAuth(s.handleReport)))
	mux.HandleFunc("GET /api/report/csv", s.withCommon(s.requireAuth(s.handleReportCSV)))
	mux.HandleFunc("POST /api/insights", s.withCommon(s.requireAuth(s.handleInsights)))

	return mux
}

// invalidateViews drops every memoized derivation. Called after any write
// so summaries and reports always reflect the current collection.
func (s *Server) invalidateViews() {
	s.listCache.Purge()
	s.summaryCache.Purge()
	s.reportCache.Purge()
}

// listTransactions returns the full collection, memoized between writes.
func (s *Server) listTransactions(ctx context.Context) ([]core.Transaction, error) {
	const key = "all"
	if txs, ok := s.listCache.Get(key); ok {
		s.collector.CacheHit("transactions")
		return txs, nil
	}
	s.collector.CacheMiss("transactions")

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	txs, err := s.store.ListTransactions(cctx)
	if err != nil {
		return nil, err
	}
	s.listCache.Set(key, txs)
	return txs, nil
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.StopCleanup()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
