package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/swiftbill/be-invoicing/internal/service"
)

// maxLogoSize bounds logo upload size (5 MB, matching the upload endpoint).
const maxLogoSize = 5 << 20

// SettingsHandler handles settings HTTP requests.
type SettingsHandler struct {
	service *service.SettingsService
	log     zerolog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(service *service.SettingsService, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, log: log}
}

// GetSettings handles get settings requests.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	settings, err := h.service.GetSettings(r.Context(), owner)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles update settings requests.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req service.SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), owner, &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UploadLogo handles multipart logo uploads.
func (h *SettingsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		http.Error(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Logo file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.service.UploadLogo(r.Context(), owner, header.Filename, file)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
