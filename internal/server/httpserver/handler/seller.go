// Package handler provides HTTP request handlers for Stallgate.
package handler

import (
	"net/http"
	"strconv"

	"github.com/openstall/stallgate/internal/core/domain"
	"github.com/openstall/stallgate/internal/core/service"
	"github.com/openstall/stallgate/internal/telemetry/logger"
)

// RegisterItem handles POST /api/items on the seller frontend.
func (h *Handler) RegisterItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleSeller)
		if !ok {
			return
		}

		var req RegisterItemRequest
		if !h.decode(w, r, &req) {
			return
		}

		item, err := h.catalog.Register(r.Context(), &service.RegisterItemRequest{
			SellerID:  sess.UserID,
			Category:  req.Category,
			Name:      req.Name,
			Keywords:  req.Keywords,
			Condition: domain.Condition(req.Condition),
			Price:     req.Price,
			Quantity:  req.Quantity,
		})
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		h.metrics.ItemsRegistered.Inc()
		logger.L(r.Context()).Info("item registered",
			"item", item.Key.String(),
			"seller_id", sess.UserID,
		)
		h.writeJSON(w, r, http.StatusCreated, itemResponse(item))
	}
}

// ChangePrice handles POST /api/items/{category}/{id}/price.
func (h *Handler) ChangePrice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleSeller)
		if !ok {
			return
		}
		key, ok := h.itemKeyFromPath(w, r)
		if !ok {
			return
		}

		var req ChangePriceRequest
		if !h.decode(w, r, &req) {
			return
		}

		item, err := h.catalog.SetPrice(r.Context(), sess.UserID, key, req.Price)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, itemResponse(item))
	}
}

// ChangeQuantity handles POST /api/items/{category}/{id}/units.
// Setting zero withdraws the item from sale without deleting it.
func (h *Handler) ChangeQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleSeller)
		if !ok {
			return
		}
		key, ok := h.itemKeyFromPath(w, r)
		if !ok {
			return
		}

		var req ChangeQuantityRequest
		if !h.decode(w, r, &req) {
			return
		}

		item, err := h.catalog.SetQuantity(r.Context(), sess.UserID, key, req.Quantity)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, itemResponse(item))
	}
}

// ListOwnItems handles GET /api/items on the seller frontend. By
// default every registered item is returned, sold-out ones included;
// ?active=true narrows to items with stock remaining.
func (h *Handler) ListOwnItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleSeller)
		if !ok {
			return
		}

		var items []*domain.Item
		var err error
		if r.URL.Query().Get("active") == "true" {
			items, err = h.catalog.ListActiveBySeller(r.Context(), sess.UserID)
		} else {
			items, err = h.catalog.ListBySeller(r.Context(), sess.UserID)
		}
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, itemListResponse(items))
	}
}

// OwnRating handles GET /api/rating on the seller frontend.
func (h *Handler) OwnRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.actor(w, r, domain.RoleSeller)
		if !ok {
			return
		}
		h.sellerRating(w, r, sess.UserID)
	}
}

// SellerRating handles GET /api/sellers/{id}/rating. Mounted on both
// frontends: buyers inspect sellers before purchasing.
func (h *Handler) SellerRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, "seller id must be an integer")
			return
		}
		h.sellerRating(w, r, sellerID)
	}
}

func (h *Handler) sellerRating(w http.ResponseWriter, r *http.Request, sellerID int64) {
	rating, err := h.catalog.SellerRating(r.Context(), sellerID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, RatingResponse{
		SellerID:   rating.SellerID,
		ThumbsUp:   rating.ThumbsUp,
		ThumbsDown: rating.ThumbsDown,
	})
}
