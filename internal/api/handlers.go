package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/calebmorris/trade-journal/internal/database"
	"github.com/calebmorris/trade-journal/internal/kafka"
	"github.com/calebmorris/trade-journal/internal/models"
	"github.com/calebmorris/trade-journal/internal/prefs"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db       *database.DB
	producer *kafka.Producer
	prefs    *prefs.Store
}

// NewHandler creates a new Handler
func NewHandler(db *database.DB, producer *kafka.Producer, prefs *prefs.Store) *Handler {
	return &Handler{
		db:       db,
		producer: producer,
		prefs:    prefs,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// CreateAccount handles POST /accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var account models.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if account.UserID == "" || account.Name == "" {
		http.Error(w, "user_id and name are required", http.StatusBadRequest)
		return
	}

	if err := h.db.CreateAccount(&account); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, account)
}

// GetAccounts handles GET /accounts?user_id=
func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	accounts, err := h.db.GetAccountsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET /accounts/{id}
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.db.GetAccountByID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, account)
}

// UpdateAccount handles PUT /accounts/{id}. Only descriptive fields change;
// the balance moves through trades and transactions.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var account models.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	account.ID = mux.Vars(r)["id"]

	if account.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateAccount(&account); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	updated, err := h.db.GetAccountByID(account.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteAccount handles DELETE /accounts/{id}
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteAccount(mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateTransaction handles POST /transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if problems := tx.Validate(); len(problems) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"errors": problems})
		return
	}

	if err := h.db.CreateTransaction(&tx); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.publishTransactionRecorded(r, &tx)

	respondJSON(w, http.StatusCreated, tx)
}

// GetTransactions handles GET /transactions?account_id= or ?user_id=
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	if accountID := r.URL.Query().Get("account_id"); accountID != "" {
		transactions, err := h.db.GetTransactionsByAccount(accountID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, transactions)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	transactions, err := h.db.GetTransactionsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET /transactions/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.db.GetTransactionByID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, tx)
}

// UpdateTransaction handles PUT /transactions/{id}
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	tx.ID = mux.Vars(r)["id"]

	if problems := tx.Validate(); len(problems) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"errors": problems})
		return
	}

	if err := h.db.UpdateTransaction(&tx); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, tx)
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteTransaction(mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateStrategy handles POST /strategies
func (h *Handler) CreateStrategy(w http.ResponseWriter, r *http.Request) {
	var strategy models.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strategy); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strategy.UserID == "" || strategy.Name == "" {
		http.Error(w, "user_id and name are required", http.StatusBadRequest)
		return
	}

	if err := h.db.CreateStrategy(&strategy); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, strategy)
}

// GetStrategies handles GET /strategies?user_id=
func (h *Handler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	strategies, err := h.db.GetStrategiesByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, strategies)
}

// GetStrategy handles GET /strategies/{id}
func (h *Handler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	strategy, err := h.db.GetStrategyByID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, strategy)
}

// UpdateStrategy handles PUT /strategies/{id}
func (h *Handler) UpdateStrategy(w http.ResponseWriter, r *http.Request) {
	var strategy models.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strategy); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	strategy.ID = mux.Vars(r)["id"]

	if strategy.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateStrategy(&strategy); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, strategy)
}

// DeleteStrategy handles DELETE /strategies/{id}
func (h *Handler) DeleteStrategy(w http.ResponseWriter, r *http.Request) {
	if err := h.db.DeleteStrategy(mux.Vars(r)["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) publishTransactionRecorded(r *http.Request, tx *models.Transaction) {
	if h.producer == nil {
		return
	}
	if err := h.producer.PublishTransactionRecorded(r.Context(), tx); err != nil {
		logrus.WithError(err).Error("failed to publish transaction event")
	}
}

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return "", false
	}
	return userID, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
