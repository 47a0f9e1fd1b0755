package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
	"github.com/Cheertaboi/promo-pricing-service/internal/service"
)

// --- Request / Response DTOs ---

type OfferRequest struct {
	Scope         models.Scope        `json:"scope"`
	TargetID      string              `json:"targetId"`
	DiscountKind  models.DiscountKind `json:"discountKind"`
	DiscountValue *float64            `json:"discountValue"`
	Active        *bool               `json:"active,omitempty"`
	Description   string              `json:"description,omitempty"`
}

// toOffer treats a missing "active" as true.
func (req OfferRequest) toOffer() (models.Offer, error) {
	if req.DiscountValue == nil {
		return models.Offer{}, &models.ValidationError{Field: "discountValue", Reason: "required"}
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return models.Offer{
		Scope:         req.Scope,
		TargetID:      req.TargetID,
		DiscountKind:  req.DiscountKind,
		DiscountValue: *req.DiscountValue,
		Active:        active,
		Description:   req.Description,
	}, nil
}

type SetActiveRequest struct {
	Active *bool `json:"active"`
}

type OffersResponse struct {
	Offers []models.Offer `json:"offers"`
}

// --- Handler struct & constructor ---

type OfferHandler struct {
	offers *service.OfferService
	logger *slog.Logger
}

func NewOfferHandler(offers *service.OfferService, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{offers: offers, logger: logger}
}

// --- Handlers ---

// CreateOffer handles POST /admin/offers
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, r, h.logger, err)
		return
	}
	offer, err := req.toOffer()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.offers.Create(r.Context(), offer)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateOffer handles PUT /admin/offers/{id}
func (h *OfferHandler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	var req OfferRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, r, h.logger, err)
		return
	}
	offer, err := req.toOffer()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.offers.Update(r.Context(), pathParam(r, "id"), offer)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteOffer handles DELETE /admin/offers/{id}
func (h *OfferHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.offers.Delete(r.Context(), pathParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetOfferActive handles PATCH /admin/offers/{id}/active
func (h *OfferHandler) SetOfferActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, r, h.logger, err)
		return
	}
	if req.Active == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "active is required"})
		return
	}

	offer, err := h.offers.SetActive(r.Context(), pathParam(r, "id"), *req.Active)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// GetOffer handles GET /admin/offers/{id}
func (h *OfferHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := h.offers.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// ListOffers handles GET /admin/offers, inactive offers included.
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offers.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, OffersResponse{Offers: offers})
}

// ActiveOffers handles GET /offers/active
func (h *OfferHandler) ActiveOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offers.ListActive(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, OffersResponse{Offers: offers})
}
