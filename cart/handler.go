// Package cart implements the server side of cart persistence: single-item
// upserts, the bulk login-time sync, quantity updates and removals, all
// scoped to the authenticated caller.
package cart

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"drerwrk/auth"
	"drerwrk/database"
	"drerwrk/model"
	"drerwrk/respond"
)

// GetCartHandler returns the caller's full cart, catalog lines joined with
// current catalog name, image and effective price.
func GetCartHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.RequireUser(conn, r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "User not authenticated or session invalid.")
			return
		}

		lines, err := database.GetCartLines(conn, identity.UserID)
		if err != nil {
			log.Printf("Error fetching cart for %s: %v", identity.UserID, err)
			respond.Error(w, http.StatusInternalServerError, "Failed to fetch cart.")
			return
		}
		respond.JSON(w, http.StatusOK, lines)
	}
}

type addItemPayload struct {
	Item model.CartLine `json:"item"`
}

// AddItemHandler applies one increment-or-insert. The delta is additive:
// posting the same item again adds the quantity again.
func AddItemHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.RequireUser(conn, r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "User not authenticated or session invalid.")
			return
		}

		var payload addItemPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respond.Error(w, http.StatusBadRequest, "A valid item object with id and quantity is required.")
			return
		}
		item := payload.Item
		if item.Quantity <= 0 {
			respond.Error(w, http.StatusBadRequest, "A valid item object with id and quantity is required.")
			return
		}
		if item.Ref.Kind == model.ItemKindVirtual && item.Ref.VirtualID == "" {
			respond.Error(w, http.StatusBadRequest, "A valid item object with id and quantity is required.")
			return
		}

		if item.Ref.Kind == model.ItemKindCatalog {
			err = database.UpsertCatalogLine(conn, identity.UserID, item.Ref.ProductID, item.Quantity)
		} else {
			err = database.UpsertVirtualLine(conn, identity.UserID, item)
		}
		if err != nil {
			log.Printf("Error adding cart item %s for %s: %v", item.Ref, identity.UserID, err)
			respond.Error(w, http.StatusInternalServerError, "Failed to add/update cart item.")
			return
		}

		respond.Message(w, http.StatusOK, "Cart updated successfully!")
	}
}

// SyncCartHandler reconciles the local snapshot captured at login against the
// caller's server cart. Quantities merge max-wins; the catalog and virtual
// batches run independently so one failing does not block the other.
func SyncCartHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.RequireUser(conn, r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "User not authenticated or session invalid.")
			return
		}

		var payload model.SyncRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respond.Error(w, http.StatusBadRequest, "localCart array is required.")
			return
		}

		var catalogLines, virtualLines []model.CartLine
		for _, line := range payload.LocalCart {
			if line.Quantity <= 0 {
				continue
			}
			if line.Ref.Kind == model.ItemKindCatalog {
				catalogLines = append(catalogLines, line)
			} else if line.Ref.VirtualID != "" {
				virtualLines = append(virtualLines, line)
			}
		}

		catalogFailed := mergeBatch(conn, identity.UserID, catalogLines, false)
		virtualFailed := mergeBatch(conn, identity.UserID, virtualLines, true)

		if catalogFailed+virtualFailed > 0 {
			log.Printf("Cart sync for %s completed with %d catalog and %d virtual failures",
				identity.UserID, catalogFailed, virtualFailed)
		}
		respond.JSON(w, http.StatusOK, map[string]interface{}{
			"message":       "Cart synced successfully!",
			"failedCatalog": catalogFailed,
			"failedVirtual": virtualFailed,
		})
	}
}

func mergeBatch(conn *sqlx.DB, userID string, lines []model.CartLine, virtual bool) int {
	if len(lines) == 0 {
		return 0
	}
	tx, err := conn.Beginx()
	if err != nil {
		log.Printf("Error starting sync batch for %s: %v", userID, err)
		return len(lines)
	}
	defer tx.Rollback()

	for _, line := range lines {
		if virtual {
			err = database.MergeVirtualLine(tx, userID, line)
		} else {
			err = database.MergeCatalogLine(tx, userID, line.Ref.ProductID, line.Quantity)
		}
		if err != nil {
			log.Printf("Error merging line %s for %s: %v", line.Ref, userID, err)
			return len(lines)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("Error committing sync batch for %s: %v", userID, err)
		return len(lines)
	}
	return 0
}

type updateQuantityPayload struct {
	Quantity int `json:"quantity"`
}

// ItemHandler serves /api/cart/{itemId}: PUT sets an absolute quantity,
// DELETE removes the line.
func ItemHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.RequireUser(conn, r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "User not authenticated or session invalid.")
			return
		}

		itemID := strings.TrimPrefix(r.URL.Path, "/api/cart/")
		ref, err := model.ParseItemRef(itemID)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "A valid item id is required.")
			return
		}

		switch r.Method {
		case http.MethodPut:
			updateQuantity(conn, w, r, identity.UserID, ref)
		case http.MethodDelete:
			removeItem(conn, w, identity.UserID, ref)
		default:
			respond.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		}
	}
}

// updateQuantity sets an absolute quantity for one line. Non-positive values
// are rejected; removal goes through DELETE.
func updateQuantity(conn *sqlx.DB, w http.ResponseWriter, r *http.Request, userID string, ref model.ItemRef) {
	var payload updateQuantityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "quantity is required.")
		return
	}
	if payload.Quantity <= 0 {
		respond.Error(w, http.StatusBadRequest, "Quantity must be positive. Use DELETE to remove.")
		return
	}

	affected, err := database.SetLineQuantity(conn, userID, ref, payload.Quantity)
	if err != nil {
		log.Printf("Error updating quantity for %s (%s): %v", ref, userID, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update item quantity.")
		return
	}
	if affected == 0 {
		// The scoped update touched nothing: either the line belongs to
		// someone else or it does not exist at all.
		exists, err := database.LineExistsAnyUser(conn, ref)
		if err != nil {
			log.Printf("Error probing line %s: %v", ref, err)
			respond.Error(w, http.StatusInternalServerError, "Failed to update item quantity.")
			return
		}
		if exists {
			respond.Error(w, http.StatusForbidden, "You do not own this cart item.")
		} else {
			respond.Error(w, http.StatusNotFound, "Cart item not found.")
		}
		return
	}

	respond.Message(w, http.StatusOK, "Quantity updated!")
}

// removeItem deletes one line; removing an absent line succeeds.
func removeItem(conn *sqlx.DB, w http.ResponseWriter, userID string, ref model.ItemRef) {
	if err := database.DeleteLine(conn, userID, ref); err != nil {
		log.Printf("Error removing cart item %s for %s: %v", ref, userID, err)
		respond.Error(w, http.StatusInternalServerError, "Failed to remove item.")
		return
	}
	respond.Message(w, http.StatusOK, "Item removed successfully.")
}

func ClearCartHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.RequireUser(conn, r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "User not authenticated or session invalid.")
			return
		}

		if err := database.ClearCart(conn, identity.UserID); err != nil {
			log.Printf("Error clearing cart for %s: %v", identity.UserID, err)
			respond.Error(w, http.StatusInternalServerError, "Failed to clear cart.")
			return
		}
		respond.Message(w, http.StatusOK, "Cart cleared successfully.")
	}
}
