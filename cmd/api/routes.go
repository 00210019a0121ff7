package main

import (
	"net/http"

	"github.com/rs/zerolog"

	httphandlers "sparebudget/internal/interfaces/http"
	"sparebudget/internal/shared/config"
	"sparebudget/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth(deps.DB))

	// SpareBank1 OAuth
	mux.HandleFunc("/api/oauth/authorize", deps.OAuthHandler.HandleAuthorize)
	mux.HandleFunc("/api/oauth/exchange", deps.OAuthHandler.HandleExchange)
	mux.HandleFunc("/api/oauth/refresh", deps.OAuthHandler.HandleRefresh)

	// Sync
	mux.HandleFunc("/api/sync/accounts", deps.SyncHandler.HandleSyncAccounts)
	mux.HandleFunc("/api/sync/transactions", deps.SyncHandler.HandleSyncTransactions)

	// Transactions
	mux.HandleFunc("/api/transactions", deps.TransactionHandler.HandleListTransactions)
	mux.HandleFunc("/api/transactions/cleanup-duplicates", deps.SyncHandler.HandleCleanupDuplicates)

	// Budget
	mux.HandleFunc("/api/budget/categories", deps.BudgetHandler.HandleCategories)
	mux.HandleFunc("/api/budget/manage", deps.BudgetHandler.HandleManage)
	mux.HandleFunc("/api/budget/goal", deps.BudgetHandler.HandleGoal)
	mux.HandleFunc("/api/budget/summary", deps.BudgetHandler.HandleSummary)
	mux.HandleFunc("/api/budget/analysis", deps.BudgetHandler.HandleAnalysis)

	// Analytics
	mux.HandleFunc("/api/analytics", deps.AnalyticsHandler.HandleAnalytics)

	// Apply global middleware, innermost first
	handler := middleware.CORS(cfg.Server.AllowedHosts)(mux)
	handler = middleware.Recovery(log)(handler)
	handler = middleware.Logging(log)(handler)
	handler = middleware.RequestID(handler)

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(cfg.Telemetry.ServiceName)(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Info().Msg("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
