package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Anything unrecognized is
// logged and reported as a 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid_offer",
			"field":  ve.Field,
			"reason": ve.Reason,
		})
	case errors.Is(err, models.ErrOfferNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "offer_not_found"})
	case errors.Is(err, models.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product_not_found"})
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
	}
}

// decodeBody reads a JSON body into dst. Enum validation errors raised while
// decoding come back as they are so the caller can report the field.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return errInvalidBody
	}
	return nil
}

var errInvalidBody = errors.New("invalid_body")

func writeDecodeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if errors.Is(err, errInvalidBody) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	writeError(w, r, logger, err)
}

// pathParam returns the decoded value of a route parameter.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
