package database

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"drerwrk/model"
)

// CreateOrder inserts the order row and its catalog item rows in one
// transaction. Virtual lines are serialized onto the order itself since they
// have no product rows to reference.
func CreateOrder(db *sqlx.DB, userID string, shippingAddress string, totalPrice float64, catalogItems []model.CartLine, virtualItems []model.CartLine) (*model.Order, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	var virtualJSON *string
	if len(virtualItems) > 0 {
		raw, err := json.Marshal(virtualItems)
		if err != nil {
			return nil, fmt.Errorf("failed to encode virtual items: %w", err)
		}
		s := string(raw)
		virtualJSON = &s
	}

	res, err := tx.Exec(`
		INSERT INTO orders (user_id, total_price, shipping_address, virtual_items)
		VALUES (?, ?, ?, ?)`,
		userID, totalPrice, shippingAddress, virtualJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new order id: %w", err)
	}

	for _, item := range catalogItems {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
			VALUES (?, ?, ?, ?)`,
			orderID, item.Ref.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item %d: %w", item.Ref.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return GetOrderByID(db, orderID)
}

func GetOrderByID(dbtx *sqlx.DB, orderID int64) (*model.Order, error) {
	var order model.Order
	err := dbtx.Get(&order, `
		SELECT id, user_id, created_at, total_price, status, shipping_address, virtual_items
		FROM orders WHERE id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	if err := attachOrderDetails(dbtx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByUser returns the user's orders newest first, items joined with
// current product name and image.
func GetOrdersByUser(dbtx *sqlx.DB, userID string) ([]model.Order, error) {
	orders := []model.Order{}
	err := dbtx.Select(&orders, `
		SELECT id, user_id, created_at, total_price, status, shipping_address, virtual_items
		FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select orders for user %s: %w", userID, err)
	}
	for i := range orders {
		if err := attachOrderDetails(dbtx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func attachOrderDetails(dbtx *sqlx.DB, order *model.Order) error {
	items := []model.OrderItem{}
	err := dbtx.Select(&items, `
		SELECT oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase,
		       p.name AS product_name, p.image AS product_image
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to select items for order %d: %w", order.ID, err)
	}
	order.Items = items

	order.VirtualItems = []model.CartLine{}
	if order.VirtualItemsJSON != nil && *order.VirtualItemsJSON != "" {
		if err := json.Unmarshal([]byte(*order.VirtualItemsJSON), &order.VirtualItems); err != nil {
			return fmt.Errorf("failed to decode virtual items for order %d: %w", order.ID, err)
		}
	}
	return nil
}
