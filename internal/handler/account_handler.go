package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/swiftbill/be-invoicing/internal/service"
)

// AccountHandler handles bank account HTTP requests.
type AccountHandler struct {
	service *service.AccountService
	log     zerolog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service *service.AccountService, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{service: service, log: log}
}

// ListAccounts handles list account requests.
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	accounts, err := h.service.ListAccounts(r.Context(), owner)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

// AddAccount handles add account requests.
func (h *AccountHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req service.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.service.AddAccount(r.Context(), owner, &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// UpdateAccount handles update account requests.
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req service.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), owner, &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// DeleteAccount handles delete account requests.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), owner, id); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultAccount handles set default account requests.
func (h *AccountHandler) SetDefaultAccount(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.SetDefaultAccount(r.Context(), owner, req.ID); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"default_account_id": req.ID})
}
