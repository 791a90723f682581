package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"drerwrk/model"
)

// GetProductsPage returns one page of the catalog with the total row count
// for the same filter set. sort accepts "price-asc" and "price-desc"; any
// other value falls back to id order.
func GetProductsPage(dbtx *sqlx.DB, category string, brandID int64, sort string, page, limit int) (*model.ProductPage, error) {
	where := []string{}
	args := []interface{}{}
	if category != "" {
		where = append(where, "p.category = ?")
		args = append(args, category)
	}
	if brandID > 0 {
		where = append(where, "p.brand_id = ?")
		args = append(args, brandID)
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := dbtx.Get(&total, "SELECT COUNT(*) FROM products p"+whereClause, args...); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	orderClause := " ORDER BY p.id ASC"
	switch sort {
	case "price-asc":
		orderClause = " ORDER BY p.effective_price ASC"
	case "price-desc":
		orderClause = " ORDER BY p.effective_price DESC"
	}

	query := `
		SELECT p.id, p.name, p.description, p.category, p.brand_id,
		       b.name AS brand_name,
		       p.price, p.sale_price, p.effective_price,
		       p.image, p.stock, p.cpu_socket_id, p.ram_type_id
		FROM products p
		LEFT JOIN brands b ON b.id = p.brand_id` +
		whereClause + orderClause + " LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	products := []model.Product{}
	if err := dbtx.Select(&products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select products page: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	return &model.ProductPage{
		Products:      products,
		TotalProducts: total,
		TotalPages:    totalPages,
		CurrentPage:   page,
	}, nil
}

// SearchProducts matches the query against name and description.
func SearchProducts(dbtx *sqlx.DB, q string) ([]model.Product, error) {
	pattern := "%" + q + "%"
	products := []model.Product{}
	err := dbtx.Select(&products, `
		SELECT id, name, description, category, brand_id, price, sale_price,
		       effective_price, image, stock, cpu_socket_id, ram_type_id
		FROM products
		WHERE name LIKE ? OR description LIKE ?
		ORDER BY id`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", q, err)
	}
	return products, nil
}

// GetProductByID returns nil when the product does not exist.
func GetProductByID(dbtx *sqlx.DB, id int64) (*model.Product, error) {
	var p model.Product
	err := dbtx.Get(&p, `
		SELECT id, name, description, category, brand_id, price, sale_price,
		       effective_price, image, stock, cpu_socket_id, ram_type_id
		FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &p, nil
}

// GetComponentsByCategory lists builder candidates for one category. The
// socket and RAM-type filters apply only when non-empty; an empty filter
// means every component in the category is compatible as far as we know.
func GetComponentsByCategory(dbtx *sqlx.DB, category, cpuSocketID, ramTypeID string) ([]model.Product, error) {
	query := `
		SELECT id, name, description, category, brand_id, price, sale_price,
		       effective_price, image, stock, cpu_socket_id, ram_type_id
		FROM products WHERE category = ?`
	args := []interface{}{category}
	if cpuSocketID != "" {
		query += " AND cpu_socket_id = ?"
		args = append(args, cpuSocketID)
	}
	if ramTypeID != "" {
		query += " AND ram_type_id = ?"
		args = append(args, ramTypeID)
	}
	query += " ORDER BY id"

	components := []model.Product{}
	if err := dbtx.Select(&components, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select components for category %s: %w", category, err)
	}
	return components, nil
}

func GetCategories(dbtx *sqlx.DB) ([]model.Category, error) {
	categories := []model.Category{}
	if err := dbtx.Select(&categories, `SELECT name, image_url FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	return categories, nil
}

func GetBrands(dbtx *sqlx.DB) ([]model.Brand, error) {
	brands := []model.Brand{}
	if err := dbtx.Select(&brands, `SELECT id, name, logo_url FROM brands ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to select brands: %w", err)
	}
	return brands, nil
}
