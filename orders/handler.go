// Package orders turns a cart into a placed order and serves order history.
package orders

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"drerwrk/auth"
	"drerwrk/database"
	"drerwrk/model"
	"drerwrk/money"
	"drerwrk/respond"
)

// ListOrdersHandler returns the caller's orders newest first, catalog items
// joined with current product name and image.
func ListOrdersHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.RequireUser(conn, r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "User not authenticated or session invalid.")
			return
		}

		userOrders, err := database.GetOrdersByUser(conn, identity.UserID)
		if err != nil {
			log.Printf("Error fetching orders for %s: %v", identity.UserID, err)
			respond.Error(w, http.StatusInternalServerError, "Failed to fetch order history.")
			return
		}
		for i := range userOrders {
			userOrders[i].TotalDisplay = money.Format(userOrders[i].TotalPrice)
		}
		respond.JSON(w, http.StatusOK, userOrders)
	}
}

type placeOrderPayload struct {
	CartItems []model.CartLine `json:"cartItems"`
}

// PlaceOrderHandler submits the cart as an order. Catalog lines become order
// item rows; virtual lines (packages, builds) are stored on the order as one
// JSON document. The shipping address is snapshotted from the profile.
func PlaceOrderHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.RequireUser(conn, r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "User not authenticated or session invalid.")
			return
		}

		var payload placeOrderPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.CartItems) == 0 {
			respond.Error(w, http.StatusBadRequest, "Cart is empty.")
			return
		}

		var catalogItems, virtualItems []model.CartLine
		totalPrice := 0.0
		for _, item := range payload.CartItems {
			if item.Quantity <= 0 {
				respond.Error(w, http.StatusBadRequest, "Item quantities must be positive.")
				return
			}
			totalPrice += item.UnitPrice * float64(item.Quantity)
			if item.Ref.Kind == model.ItemKindCatalog {
				catalogItems = append(catalogItems, item)
			} else {
				virtualItems = append(virtualItems, item)
			}
		}

		profile, err := database.GetOrCreateProfile(conn, identity.UserID, identity.Email)
		if err != nil {
			log.Printf("Error fetching profile for order (%s): %v", identity.UserID, err)
			respond.Error(w, http.StatusInternalServerError, "Could not retrieve shipping address.")
			return
		}
		address, err := json.Marshal(map[string]string{
			"address_line1": profile.AddressLine1,
			"address_line2": profile.AddressLine2,
			"city":          profile.City,
			"province":      profile.Province,
			"postal_code":   profile.PostalCode,
		})
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "Could not retrieve shipping address.")
			return
		}

		order, err := database.CreateOrder(conn, identity.UserID, string(address), totalPrice, catalogItems, virtualItems)
		if err != nil {
			log.Printf("Error creating order for %s: %v", identity.UserID, err)
			respond.Error(w, http.StatusInternalServerError, "Failed to create order.")
			return
		}
		order.TotalDisplay = money.Format(order.TotalPrice)

		respond.JSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Order created successfully!",
			"order":   order,
		})
	}
}
