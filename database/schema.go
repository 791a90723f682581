package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
    token      TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(id),
    expires_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    id            TEXT PRIMARY KEY REFERENCES users(id),
    full_name     TEXT NOT NULL DEFAULT '',
    phone_number  TEXT NOT NULL DEFAULT '',
    address_line1 TEXT NOT NULL DEFAULT '',
    address_line2 TEXT NOT NULL DEFAULT '',
    city          TEXT NOT NULL DEFAULT '',
    province      TEXT NOT NULL DEFAULT '',
    postal_code   TEXT NOT NULL DEFAULT '',
    updated_at    TIMESTAMP
);

CREATE TABLE IF NOT EXISTS brands (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    name     TEXT NOT NULL UNIQUE,
    logo_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS categories (
    name      TEXT PRIMARY KEY,
    image_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    category      TEXT NOT NULL,
    brand_id      INTEGER REFERENCES brands(id),
    price         REAL NOT NULL,
    sale_price    REAL,
    effective_price REAL GENERATED ALWAYS AS
        (CASE WHEN sale_price IS NOT NULL AND sale_price > 0 THEN sale_price ELSE price END) STORED,
    image         TEXT NOT NULL DEFAULT '',
    stock         INTEGER NOT NULL DEFAULT 0,
    cpu_socket_id TEXT,
    ram_type_id   TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

CREATE TABLE IF NOT EXISTS packages (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    name            TEXT NOT NULL,
    image_url       TEXT NOT NULL DEFAULT '',
    price_complete  REAL NOT NULL,
    price_unit_only REAL,
    description     TEXT NOT NULL DEFAULT '',
    is_active       INTEGER NOT NULL DEFAULT 1
);

-- One row per line. Exactly one of product_id / virtual_item_id is set and
-- each pairing with user_id has its own uniqueness constraint, so catalog
-- and virtual upserts use different conflict targets.
CREATE TABLE IF NOT EXISTS cart_items (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id            TEXT NOT NULL REFERENCES users(id),
    product_id         INTEGER REFERENCES products(id),
    virtual_item_id    TEXT,
    virtual_item_name  TEXT,
    virtual_item_price REAL,
    virtual_item_image TEXT,
    quantity           INTEGER NOT NULL CHECK (quantity > 0),
    CHECK ((product_id IS NULL) <> (virtual_item_id IS NULL))
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_user_product
    ON cart_items(user_id, product_id) WHERE product_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_user_virtual
    ON cart_items(user_id, virtual_item_id) WHERE virtual_item_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS orders (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id          TEXT NOT NULL REFERENCES users(id),
    created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    total_price      REAL NOT NULL,
    status           TEXT NOT NULL DEFAULT 'pending',
    shipping_address TEXT NOT NULL DEFAULT '{}',
    virtual_items    TEXT
);

CREATE TABLE IF NOT EXISTS order_items (
    order_id          INTEGER NOT NULL REFERENCES orders(id),
    product_id        INTEGER NOT NULL REFERENCES products(id),
    quantity          INTEGER NOT NULL,
    price_at_purchase REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`

func ApplySchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
