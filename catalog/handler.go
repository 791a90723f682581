// Package catalog serves the public product browsing API.
package catalog

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"drerwrk/database"
	"drerwrk/respond"
)

// ListProductsHandler serves the paginated catalog with optional category and
// brand filters and price sorting on the effective price.
func ListProductsHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page, _ := strconv.Atoi(q.Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(q.Get("limit"))
		if limit < 1 {
			limit = 10
		}

		var brandID int64
		if raw := q.Get("brand_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "brand_id must be numeric.")
				return
			}
			brandID = id
		}

		result, err := database.GetProductsPage(conn, q.Get("category"), brandID, q.Get("sort"), page, limit)
		if err != nil {
			log.Printf("Error fetching products page: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Failed to fetch products.")
			return
		}
		respond.JSON(w, http.StatusOK, result)
	}
}

func SearchProductsHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			respond.Error(w, http.StatusBadRequest, "Search query is required.")
			return
		}

		products, err := database.SearchProducts(conn, q)
		if err != nil {
			log.Printf("Error searching products for %q: %v", q, err)
			respond.Error(w, http.StatusInternalServerError, "Failed to search products.")
			return
		}
		respond.JSON(w, http.StatusOK, products)
	}
}

// GetProductHandler serves /api/products/{id}.
func GetProductHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawID := strings.TrimPrefix(r.URL.Path, "/api/products/")
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "Product id must be numeric.")
			return
		}

		product, err := database.GetProductByID(conn, id)
		if err != nil {
			log.Printf("Error fetching product %d: %v", id, err)
			respond.Error(w, http.StatusInternalServerError, "Failed to fetch product.")
			return
		}
		if product == nil {
			respond.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		respond.JSON(w, http.StatusOK, product)
	}
}

func ListCategoriesHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := database.GetCategories(conn)
		if err != nil {
			log.Printf("Error fetching categories: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Failed to fetch categories.")
			return
		}
		respond.JSON(w, http.StatusOK, categories)
	}
}

func ListBrandsHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := database.GetBrands(conn)
		if err != nil {
			log.Printf("Error fetching brands: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Failed to fetch brands.")
			return
		}
		respond.JSON(w, http.StatusOK, brands)
	}
}

// ListPackagesHandler serves the active bundles shown on the storefront.
func ListPackagesHandler(conn *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packages, err := database.GetActivePackages(conn)
		if err != nil {
			log.Printf("Error fetching packages: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Failed to fetch packages.")
			return
		}
		respond.JSON(w, http.StatusOK, packages)
	}
}
