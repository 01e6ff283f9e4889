package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Account routes
	api.HandleFunc("/accounts", handler.CreateAccount).Methods("POST")
	api.HandleFunc("/accounts", handler.GetAccounts).Methods("GET")
	api.HandleFunc("/accounts/{id}", handler.GetAccount).Methods("GET")
	api.HandleFunc("/accounts/{id}/summary", handler.GetAccountSummary).Methods("GET")
	api.HandleFunc("/accounts/{id}", handler.UpdateAccount).Methods("PUT")
	api.HandleFunc("/accounts/{id}", handler.DeleteAccount).Methods("DELETE")

	// Transaction routes
	api.HandleFunc("/transactions", handler.CreateTransaction).Methods("POST")
	api.HandleFunc("/transactions", handler.GetTransactions).Methods("GET")
	api.HandleFunc("/transactions/{id}", handler.GetTransaction).Methods("GET")
	api.HandleFunc("/transactions/{id}", handler.UpdateTransaction).Methods("PUT")
	api.HandleFunc("/transactions/{id}", handler.DeleteTransaction).Methods("DELETE")

	// Trade routes
	api.HandleFunc("/trades", handler.CreateTrade).Methods("POST")
	api.HandleFunc("/trades", handler.GetTrades).Methods("GET")
	api.HandleFunc("/trades/{id}", handler.GetTrade).Methods("GET")
	api.HandleFunc("/trades/{id}", handler.UpdateTrade).Methods("PUT")
	api.HandleFunc("/trades/{id}", handler.DeleteTrade).Methods("DELETE")

	// Strategy routes
	api.HandleFunc("/strategies", handler.CreateStrategy).Methods("POST")
	api.HandleFunc("/strategies", handler.GetStrategies).Methods("GET")
	api.HandleFunc("/strategies/{id}", handler.GetStrategy).Methods("GET")
	api.HandleFunc("/strategies/{id}", handler.UpdateStrategy).Methods("PUT")
	api.HandleFunc("/strategies/{id}", handler.DeleteStrategy).Methods("DELETE")

	// Analytics routes
	api.HandleFunc("/analytics/metrics", handler.GetMetrics).Methods("GET")
	api.HandleFunc("/analytics/charts", handler.GetCharts).Methods("GET")
	api.HandleFunc("/analytics/risk-reward", handler.GetRiskReward).Methods("GET")
	api.HandleFunc("/analytics/drawdown", handler.GetDrawdown).Methods("GET")
	api.HandleFunc("/analytics/balance-history", handler.GetBalanceHistory).Methods("GET")
	api.HandleFunc("/analytics/cumulative-pl", handler.GetCumulativePL).Methods("GET")

	// Preference routes
	api.HandleFunc("/preferences/{category}", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences/{category}", handler.PutPreferences).Methods("PUT")

	return r
}
