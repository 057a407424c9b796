package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/swiftbill/be-invoicing/internal/service"
)

// InvoiceHandler handles invoice HTTP requests.
type InvoiceHandler struct {
	service *service.InvoiceService
	log     zerolog.Logger
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(service *service.InvoiceService, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: service, log: log}
}

// CreateInvoice handles create invoice requests.
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req service.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invoice, err := h.service.CreateInvoice(r.Context(), owner, &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

// GetInvoice handles get invoice requests.
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Invoice ID is required", http.StatusBadRequest)
		return
	}

	invoice, err := h.service.GetInvoice(r.Context(), id, owner)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// ListInvoices handles list invoice requests with optional status filter,
// search term, and pagination.
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}
	search := r.URL.Query().Get("search")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	invoices, total, err := h.service.ListInvoices(r.Context(), owner, status, search, page, pageSize)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invoices":  invoices,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateStatus handles user-driven status changes.
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invoice, err := h.service.UpdateStatus(r.Context(), req.ID, owner, req.Status)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// DeleteInvoice handles delete invoice requests.
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
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
		http.Error(w, "Invoice ID is required", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteInvoice(r.Context(), id, owner); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles invoice summary requests.
func (h *InvoiceHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	stats, err := h.service.GetStats(r.Context(), owner)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
