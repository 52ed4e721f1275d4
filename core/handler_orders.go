package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/margdarshak/margdarshak/db"
)

// orderHistoryLimit caps a single history page.
const orderHistoryLimit = 50

// CreateOrderHandler records a parcel booking for the authenticated user.
// Endpoint: POST /api/orders
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorNotFound)
		return
	}

	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Courier           string          `json:"courier"`
		AmountPaise       int64           `json:"amount_paise"`
		EstimatedDelivery string          `json:"estimated_delivery"`
		PickupAddress     string          `json:"pickup_address"`
		DeliveryAddress   string          `json:"delivery_address"`
		Parcel            json.RawMessage `json:"parcel"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Courier = strings.TrimSpace(req.Courier)
	req.PickupAddress = strings.TrimSpace(req.PickupAddress)
	req.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)
	if req.Courier == "" || req.PickupAddress == "" || req.DeliveryAddress == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if req.AmountPaise < 0 {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	// UserID comes from the session, never from the body.
	order := db.ParcelOrder{
		UserID:            user.ID,
		Courier:           req.Courier,
		AmountPaise:       req.AmountPaise,
		EstimatedDelivery: req.EstimatedDelivery,
		PickupAddress:     req.PickupAddress,
		DeliveryAddress:   req.DeliveryAddress,
		Parcel:            req.Parcel,
		Status:            "placed",
	}

	created, err := a.DbOrders().InsertOrder(order)
	if err != nil {
		a.Logger().Error("failed to insert order", "error", err, "user_id", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusCreated,
			Code:    CodeOkOrder,
			Message: "Order placed",
		},
		Data: created,
	})
}

// ListOrdersHandler returns the authenticated user's order history, newest
// first.
// Endpoint: GET /api/orders
// Authenticated: Yes
func (a *App) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorNotFound)
		return
	}

	orders, err := a.DbOrders().GetOrdersByUser(user.ID, orderHistoryLimit)
	if err != nil {
		a.Logger().Error("failed to list orders", "error", err, "user_id", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkOrder,
			Message: "Order history retrieved",
		},
		Data: orders,
	})
}
