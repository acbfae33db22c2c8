// Package handler provides HTTP request handlers for Stallgate.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/core/service"
	"github.com/openstall/stallgate/internal/telemetry/logger"
)

// SearchItems handles GET /api/items/search on the buyer frontend.
// Query parameters: category (optional integer) and keywords (comma
// separated, OR semantics, case-insensitive). Sold-out items never
// appear in results.
func (h *Handler) SearchItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.actor(w, r, domain.RoleBuyer); !ok {
			return
		}

		req := &service.SearchRequest{}
		if raw := r.URL.Query().Get("category"); raw != "" {
			category, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, "category must be an integer")
				return
			}
			req.Category = &category
		}
		if raw := r.URL.Query().Get("keywords"); raw != "" {
			for _, kw := range strings.Split(raw, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					req.Keywords = append(req.Keywords, kw)
				}
			}
		}

		items, err := h.catalog.Search(r.Context(), req)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, itemListResponse(items))
	}
}

// GetItem handles GET /api/items/{category}/{id}.
func (h *Handler) GetItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.actor(w, r, domain.RoleBuyer); !ok {
			return
		}
		key, ok := h.itemKeyFromPath(w, r)
		if !ok {
			return
		}

		item, err := h.catalog.Get(r.Context(), key)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, itemResponse(item))
	}
}

// CheckCartItem handles POST /api/cart/items: an advisory availability
// check before the buyer saves the item into the cart. Stock is not
// reserved; a concurrent purchase can still win the race at checkout.
func (h *Handler) CheckCartItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.actor(w, r, domain.RoleBuyer); !ok {
			return
		}

		var req CartEntryRequest
		if !h.decode(w, r, &req) {
			return
		}

		key := domain.ItemKey{Category: req.Category, ID: req.ID}
		item, err := h.carts.CheckAvailability(r.Context(), key, req.Quantity)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, itemResponse(item))
	}
}

// SaveCart handles PUT /api/cart. Saving replaces the whole cart; an
// empty entry list clears it.
func (h *Handler) SaveCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleBuyer)
		if !ok {
			return
		}

		var req SaveCartRequest
		if !h.decode(w, r, &req) {
			return
		}

		entries := make([]domain.CartEntry, 0, len(req.Entries))
		for _, e := range req.Entries {
			entries = append(entries, domain.CartEntry{
				Key:      domain.ItemKey{Category: e.Category, ID: e.ID},
				Quantity: e.Quantity,
			})
		}

		if err := h.carts.Save(r.Context(), sess.UserID, entries); err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, cartResponse(entries))
	}
}

// GetCart handles GET /api/cart.
func (h *Handler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleBuyer)
		if !ok {
			return
		}

		entries, err := h.carts.Get(r.Context(), sess.UserID)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, cartResponse(entries))
	}
}

// ClearCart handles DELETE /api/cart.
func (h *Handler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleBuyer)
		if !ok {
			return
		}

		if err := h.carts.Clear(r.Context(), sess.UserID); err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, cartResponse(nil))
	}
}

// ProvideFeedback handles POST /api/items/{category}/{id}/feedback.
// The item's counters and the seller's aggregate move together.
func (h *Handler) ProvideFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.actor(w, r, domain.RoleBuyer); !ok {
			return
		}
		key, ok := h.itemKeyFromPath(w, r)
		if !ok {
			return
		}

		var req FeedbackRequest
		if !h.decode(w, r, &req) {
			return
		}

		kind := domain.FeedbackKind(req.Kind)
		if err := h.catalog.RecordFeedback(r.Context(), key, kind); err != nil {
			h.serviceError(w, r, err)
			return
		}

		h.metrics.FeedbackTotal.WithLabelValues(string(kind)).Inc()
		h.writeJSON(w, r, http.StatusOK, map[string]string{"result": "recorded"})
	}
}

// MakePurchase handles POST /api/purchases: payment approval, then the
// atomic stock decrement, then the ledger append.
func (h *Handler) MakePurchase() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleBuyer)
		if !ok {
			return
		}

		var req PurchaseRequest
		if !h.decode(w, r, &req) {
			return
		}

		purchase, err := h.ledger.Purchase(r.Context(), &service.PurchaseRequest{
			BuyerID:  sess.UserID,
			Key:      domain.ItemKey{Category: req.Category, ID: req.ID},
			Quantity: req.Quantity,
			Card: domain.PaymentCard{
				HolderName:   req.Card.HolderName,
				Number:       req.Card.Number,
				Expiration:   req.Card.Expiration,
				SecurityCode: req.Card.SecurityCode,
			},
		})
		if err != nil {
			switch {
			case domain.IsDomainError(err, domain.ErrPaymentDeclined.Code):
				h.metrics.PurchasesRejected.WithLabelValues("payment_declined").Inc()
			case domain.IsDomainError(err, domain.ErrInsufficientStock.Code):
				h.metrics.PurchasesRejected.WithLabelValues("insufficient_stock").Inc()
			}
			h.serviceError(w, r, err)
			return
		}

		h.metrics.PurchasesTotal.Inc()
		logger.L(r.Context()).Info("purchase completed",
			"purchase_id", purchase.ID,
			"buyer_id", sess.UserID,
			"item", purchase.Key.String(),
			"quantity", purchase.Quantity,
		)
		h.writeJSON(w, r, http.StatusCreated, purchaseResponse(purchase))
	}
}

// PurchaseHistory handles GET /api/purchases, oldest first.
func (h *Handler) PurchaseHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleBuyer)
		if !ok {
			return
		}

		purchases, err := h.ledger.HistoryFor(r.Context(), sess.UserID)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		out := PurchaseListResponse{Purchases: make([]PurchaseResponse, 0, len(purchases))}
		for _, p := range purchases {
			out.Purchases = append(out.Purchases, purchaseResponse(p))
		}
		out.Total = len(out.Purchases)
		h.writeJSON(w, r, http.StatusOK, out)
	}
}

func cartResponse(entries []domain.CartEntry) CartResponse {
	out := CartResponse{Entries: make([]CartEntryRequest, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, CartEntryRequest{
			Category: e.Key.Category,
			ID:       e.Key.ID,
			Quantity: e.Quantity,
		})
	}
	return out
}

func purchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:        p.ID,
		BuyerID:   p.BuyerID,
		Category:  p.Key.Category,
		ItemID:    p.Key.ID,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
	}
}
