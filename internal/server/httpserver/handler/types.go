// Package handler provides HTTP request handlers for Stallgate.
package handler

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses
// Prometheus exposition format).
type Response struct {
	Status    string `json:"status"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Status:    "success",
		RequestID: requestID,
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Status:    "error",
		Code:      code,
		Message:   message,
		RequestID: requestID,
	}
}

// CreateAccountRequest is the request body for POST /api/accounts.
type CreateAccountRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body for POST /api/login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents an account in API responses.
type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// RegisterItemRequest is the request body for POST /api/items.
type RegisterItemRequest struct {
	Category  int64    `json:"category"`
	Name      string   `json:"name"`
	Keywords  []string `json:"keywords"`
	Condition string   `json:"condition"`
	Price     float64  `json:"price"`
	Quantity  int64    `json:"quantity"`
}

// ChangePriceRequest is the request body for POST /api/items/{category}/{id}/price.
type ChangePriceRequest struct {
	Price float64 `json:"price"`
}

// ChangeQuantityRequest is the request body for POST /api/items/{category}/{id}/units.
type ChangeQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// ItemResponse represents a catalog item in API responses.
type ItemResponse struct {
	Category   int64    `json:"category"`
	ID         int64    `json:"id"`
	SellerID   int64    `json:"seller_id"`
	Name       string   `json:"name"`
	Keywords   []string `json:"keywords"`
	Condition  string   `json:"condition"`
	Price      float64  `json:"price"`
	Quantity   int64    `json:"quantity"`
	ThumbsUp   int64    `json:"thumbs_up"`
	ThumbsDown int64    `json:"thumbs_down"`
}

// ItemListResponse is the response body for item listings and searches.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// RatingResponse is the response body for seller rating lookups.
type RatingResponse struct {
	SellerID   int64 `json:"seller_id"`
	ThumbsUp   int64 `json:"thumbs_up"`
	ThumbsDown int64 `json:"thumbs_down"`
}

// CartEntryRequest is one cart line in cart requests and responses.
type CartEntryRequest struct {
	Category int64 `json:"category"`
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

// SaveCartRequest is the request body for PUT /api/cart.
type SaveCartRequest struct {
	Entries []CartEntryRequest `json:"entries"`
}

// CartResponse is the response body for GET /api/cart.
type CartResponse struct {
	Entries []CartEntryRequest `json:"entries"`
}

// FeedbackRequest is the request body for POST /api/items/{category}/{id}/feedback.
type FeedbackRequest struct {
	Kind string `json:"kind"`
}

// PurchaseRequest is the request body for POST /api/purchases.
type PurchaseRequest struct {
	Category int64       `json:"category"`
	ID       int64       `json:"id"`
	Quantity int64       `json:"quantity"`
	Card     PaymentCard `json:"card"`
}

// PaymentCard carries card details for a purchase.
type PaymentCard struct {
	HolderName   string `json:"holder_name"`
	Number       string `json:"number"`
	Expiration   string `json:"expiration"`
	SecurityCode string `json:"security_code"`
}

// PurchaseResponse represents a ledger entry in API responses.
type PurchaseResponse struct {
	ID        int64 `json:"id"`
	BuyerID   int64 `json:"buyer_id"`
	Category  int64 `json:"category"`
	ItemID    int64 `json:"item_id"`
	Quantity  int64 `json:"quantity"`
	CreatedAt int64 `json:"created_at"`
}

// PurchaseListResponse is the response body for GET /api/purchases.
type PurchaseListResponse struct {
	Purchases []PurchaseResponse `json:"purchases"`
	Total     int                `json:"total"`
}
