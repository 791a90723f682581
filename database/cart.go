package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"drerwrk/model"
)

type cartJoinRow struct {
	Quantity         int             `db:"quantity"`
	ProductID        sql.NullInt64   `db:"product_id"`
	ProductName      sql.NullString  `db:"product_name"`
	ProductImage     sql.NullString  `db:"product_image"`
	EffectivePrice   sql.NullFloat64 `db:"effective_price"`
	VirtualItemID    sql.NullString  `db:"virtual_item_id"`
	VirtualItemName  sql.NullString  `db:"virtual_item_name"`
	VirtualItemPrice sql.NullFloat64 `db:"virtual_item_price"`
	VirtualItemImage sql.NullString  `db:"virtual_item_image"`
}

// GetCartLines returns every line owned by the user. Catalog lines are joined
// against the products table so name, image and effective price reflect the
// current catalog; virtual lines keep the display fields they were created with.
func GetCartLines(dbtx *sqlx.DB, userID string) ([]model.CartLine, error) {
	rows := []cartJoinRow{}
	err := dbtx.Select(&rows, `
		SELECT ci.quantity, ci.product_id,
		       p.name AS product_name, p.image AS product_image, p.effective_price,
		       ci.virtual_item_id, ci.virtual_item_name,
		       ci.virtual_item_price, ci.virtual_item_image
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select cart for user %s: %w", userID, err)
	}

	lines := make([]model.CartLine, 0, len(rows))
	for _, row := range rows {
		if row.ProductID.Valid {
			lines = append(lines, model.CartLine{
				Ref:       model.CatalogRef(row.ProductID.Int64),
				Name:      row.ProductName.String,
				UnitPrice: row.EffectivePrice.Float64,
				ImageURL:  row.ProductImage.String,
				Quantity:  row.Quantity,
			})
		} else {
			lines = append(lines, model.CartLine{
				Ref:       model.VirtualRef(row.VirtualItemID.String),
				Name:      row.VirtualItemName.String,
				UnitPrice: row.VirtualItemPrice.Float64,
				ImageURL:  row.VirtualItemImage.String,
				Quantity:  row.Quantity,
			})
		}
	}
	return lines, nil
}

// UpsertCatalogLine adds delta to an existing (user, product) line or inserts
// a new one.
func UpsertCatalogLine(ext sqlx.Ext, userID string, productID int64, delta int) error {
	_, err := ext.Exec(`
		INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)
		ON CONFLICT(user_id, product_id) WHERE product_id IS NOT NULL
		DO UPDATE SET quantity = quantity + excluded.quantity`,
		userID, productID, delta)
	if err != nil {
		return fmt.Errorf("failed to upsert catalog line %d: %w", productID, err)
	}
	return nil
}

// UpsertVirtualLine adds delta to an existing (user, virtual item) line or
// inserts a new one with the supplied display fields. An existing line keeps
// its original name, price and image.
func UpsertVirtualLine(ext sqlx.Ext, userID string, line model.CartLine) error {
	_, err := ext.Exec(`
		INSERT INTO cart_items
		    (user_id, virtual_item_id, virtual_item_name, virtual_item_price, virtual_item_image, quantity)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, virtual_item_id) WHERE virtual_item_id IS NOT NULL
		DO UPDATE SET quantity = quantity + excluded.quantity`,
		userID, line.Ref.VirtualID, line.Name, line.UnitPrice, line.ImageURL, line.Quantity)
	if err != nil {
		return fmt.Errorf("failed to upsert virtual line %s: %w", line.Ref.VirtualID, err)
	}
	return nil
}

// MergeCatalogLine is the sync-time upsert: the stored quantity becomes the
// larger of the existing and incoming values, so neither local nor
// another-device progress is lost.
func MergeCatalogLine(ext sqlx.Ext, userID string, productID int64, quantity int) error {
	_, err := ext.Exec(`
		INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)
		ON CONFLICT(user_id, product_id) WHERE product_id IS NOT NULL
		DO UPDATE SET quantity = MAX(quantity, excluded.quantity)`,
		userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to merge catalog line %d: %w", productID, err)
	}
	return nil
}

func MergeVirtualLine(ext sqlx.Ext, userID string, line model.CartLine) error {
	_, err := ext.Exec(`
		INSERT INTO cart_items
		    (user_id, virtual_item_id, virtual_item_name, virtual_item_price, virtual_item_image, quantity)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, virtual_item_id) WHERE virtual_item_id IS NOT NULL
		DO UPDATE SET quantity = MAX(quantity, excluded.quantity)`,
		userID, line.Ref.VirtualID, line.Name, line.UnitPrice, line.ImageURL, line.Quantity)
	if err != nil {
		return fmt.Errorf("failed to merge virtual line %s: %w", line.Ref.VirtualID, err)
	}
	return nil
}

// SetLineQuantity overwrites the quantity of one owned line and reports how
// many rows matched.
func SetLineQuantity(ext sqlx.Ext, userID string, ref model.ItemRef, quantity int) (int64, error) {
	var res sql.Result
	var err error
	if ref.Kind == model.ItemKindCatalog {
		res, err = ext.Exec(`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?`,
			quantity, userID, ref.ProductID)
	} else {
		res, err = ext.Exec(`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND virtual_item_id = ?`,
			quantity, userID, ref.VirtualID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to set quantity for %s: %w", ref, err)
	}
	return res.RowsAffected()
}

// LineExistsAnyUser reports whether any user owns a line for the item. Used
// to distinguish Forbidden from a benign no-op when a scoped update matches
// nothing.
func LineExistsAnyUser(dbtx *sqlx.DB, ref model.ItemRef) (bool, error) {
	var exists bool
	var err error
	if ref.Kind == model.ItemKindCatalog {
		err = dbtx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM cart_items WHERE product_id = ?)`, ref.ProductID)
	} else {
		err = dbtx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM cart_items WHERE virtual_item_id = ?)`, ref.VirtualID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to probe line %s: %w", ref, err)
	}
	return exists, nil
}

// DeleteLine removes one owned line. Deleting an absent line is not an error.
func DeleteLine(ext sqlx.Ext, userID string, ref model.ItemRef) error {
	var err error
	if ref.Kind == model.ItemKindCatalog {
		_, err = ext.Exec(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, ref.ProductID)
	} else {
		_, err = ext.Exec(`DELETE FROM cart_items WHERE user_id = ? AND virtual_item_id = ?`, userID, ref.VirtualID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete line %s: %w", ref, err)
	}
	return nil
}

func ClearCart(ext sqlx.Ext, userID string) error {
	if _, err := ext.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}
