package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/calebmorris/trade-journal/internal/database"
	"github.com/calebmorris/trade-journal/internal/models"
)

const defaultStrategyTradeLimit = 50

// CreateTrade handles POST /trades
func (h *Handler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var trade models.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if problems := trade.Validate(); len(problems) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"errors": problems})
		return
	}

	if err := h.db.CreateTrade(&trade); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTradeRecorded(r.Context(), &trade); err != nil {
			logrus.WithError(err).Error("failed to publish trade recorded event")
		}
	}

	respondJSON(w, http.StatusCreated, trade)
}

// GetTrades handles GET /trades filtered by account_id, strategy, or user_id
func (h *Handler) GetTrades(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if accountID := query.Get("account_id"); accountID != "" {
		trades, err := h.db.GetTradesByAccount(accountID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, trades)
		return
	}

	if strategy := query.Get("strategy"); strategy != "" {
		limit := defaultStrategyTradeLimit
		if raw := query.Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		trades, err := h.db.GetTradesByStrategy(strategy, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, trades)
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	trades, err := h.db.GetTradesByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, trades)
}

// GetTrade handles GET /trades/{id}
func (h *Handler) GetTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := h.db.GetTradeByID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, trade)
}

// UpdateTrade handles PUT /trades/{id}. Switching a trade between detailed
// and direct entry is rejected.
func (h *Handler) UpdateTrade(w http.ResponseWriter, r *http.Request) {
	var trade models.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	trade.ID = mux.Vars(r)["id"]

	if problems := trade.Validate(); len(problems) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string][]string{"errors": problems})
		return
	}

	if err := h.db.UpdateTrade(&trade); err != nil {
		if errors.Is(err, database.ErrEntryModeLocked) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTradeUpdated(r.Context(), &trade); err != nil {
			logrus.WithError(err).Error("failed to publish trade updated event")
		}
	}

	respondJSON(w, http.StatusOK, trade)
}

// DeleteTrade handles DELETE /trades/{id}
func (h *Handler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	trade, err := h.db.GetTradeByID(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := h.db.DeleteTrade(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishTradeDeleted(r.Context(), trade); err != nil {
			logrus.WithError(err).Error("failed to publish trade deleted event")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
