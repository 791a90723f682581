package model

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ItemKind int

const (
	ItemKindCatalog ItemKind = iota
	ItemKindVirtual
)

// ItemRef identifies one cart line. Catalog items carry a numeric product id
// resolvable against the products table; virtual items (packages, finished
// custom builds) carry a string id prefixed "pkg-" or "build-" and are never
// resolved against the catalog.
type ItemRef struct {
	Kind      ItemKind
	ProductID int64
	VirtualID string
}

func CatalogRef(productID int64) ItemRef {
	return ItemRef{Kind: ItemKindCatalog, ProductID: productID}
}

func VirtualRef(virtualID string) ItemRef {
	return ItemRef{Kind: ItemKindVirtual, VirtualID: virtualID}
}

// ParseItemRef interprets a path segment or wire id. A value that parses as
// an integer is a catalog reference; any other non-empty string is virtual.
func ParseItemRef(s string) (ItemRef, error) {
	if s == "" {
		return ItemRef{}, fmt.Errorf("item id is empty")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return CatalogRef(n), nil
	}
	return VirtualRef(s), nil
}

func (r ItemRef) String() string {
	if r.Kind == ItemKindCatalog {
		return strconv.FormatInt(r.ProductID, 10)
	}
	return r.VirtualID
}

// IsBuild reports whether the reference is a finalized PC build line.
func (r ItemRef) IsBuild() bool {
	return r.Kind == ItemKindVirtual && strings.HasPrefix(r.VirtualID, "build-")
}

// MarshalJSON keeps the wire shape of the id field: a JSON number for catalog
// items, a JSON string for virtual ones.
func (r ItemRef) MarshalJSON() ([]byte, error) {
	if r.Kind == ItemKindCatalog {
		return json.Marshal(r.ProductID)
	}
	return json.Marshal(r.VirtualID)
}

func (r *ItemRef) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*r = CatalogRef(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("item id must be a number or a string")
	}
	ref, err := ParseItemRef(s)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// CartLine is one line of a cart as exchanged with the frontend. Name, price
// and image are denormalized: refreshed from the catalog on every read for
// catalog items, fixed at creation time for virtual ones.
type CartLine struct {
	Ref       ItemRef `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	ImageURL  string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// SyncRequest is the full local snapshot submitted once when a guest
// authenticates.
type SyncRequest struct {
	LocalCart []CartLine `json:"localCart"`
}

// CartRow is the persisted shape of a cart line. Exactly one of ProductID
// and VirtualItemID is set; each pairing with user_id carries its own
// uniqueness constraint.
type CartRow struct {
	ID               int64           `db:"id"`
	UserID           string          `db:"user_id"`
	ProductID        sql.NullInt64   `db:"product_id"`
	VirtualItemID    sql.NullString  `db:"virtual_item_id"`
	VirtualItemName  sql.NullString  `db:"virtual_item_name"`
	VirtualItemPrice sql.NullFloat64 `db:"virtual_item_price"`
	VirtualItemImage sql.NullString  `db:"virtual_item_image"`
	Quantity         int             `db:"quantity"`
}

func (row CartRow) Ref() ItemRef {
	if row.ProductID.Valid {
		return CatalogRef(row.ProductID.Int64)
	}
	return VirtualRef(row.VirtualItemID.String)
}
