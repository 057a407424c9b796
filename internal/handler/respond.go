package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/swiftbill/be-invoicing/internal/apperrors"
	"github.com/swiftbill/be-invoicing/internal/billing"
)

// ownerHeader carries the authenticated user's id, set by the identity
// gateway in front of this service.
const ownerHeader = "X-User-ID"

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	status := apperrors.HTTPStatus(err)

	var body errorBody
	body.Error.Code = "internal_error"
	body.Error.Message = "internal server error"

	var verr *billing.ValidationError
	var aerr *apperrors.Error
	switch {
	case errors.As(err, &verr):
		body.Error.Code = string(verr.Kind)
		body.Error.Message = verr.Message
		body.Error.Field = verr.Field
	case errors.As(err, &aerr):
		body.Error.Code = string(aerr.Code)
		body.Error.Message = aerr.Message
		body.Error.Field = aerr.Field
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, body)
}

// ownerID extracts the authenticated owner from the request, writing a 401
// when the gateway did not supply one.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(ownerHeader)
	if id == "" {
		var body errorBody
		body.Error.Code = "unauthenticated"
		body.Error.Message = "missing user identity"
		writeJSON(w, http.StatusUnauthorized, body)
		return "", false
	}
	return id, true
}
