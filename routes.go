package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"drerwrk/auth"
	"drerwrk/builder"
	"drerwrk/cart"
	"drerwrk/catalog"
	"drerwrk/orders"
	"drerwrk/profile"
	"drerwrk/respond"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB) {

	mux.HandleFunc("/api/auth/signup", auth.SignupHandler(dbConn))
	mux.HandleFunc("/api/auth/login", auth.LoginHandler(dbConn))
	mux.HandleFunc("/api/auth/logout", auth.LogoutHandler(dbConn))
	mux.HandleFunc("/api/auth/session", auth.SessionHandler(dbConn))

	mux.HandleFunc("/api/cart", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cart.GetCartHandler(dbConn)(w, r)
		case http.MethodPost:
			cart.AddItemHandler(dbConn)(w, r)
		case http.MethodDelete:
			cart.ClearCartHandler(dbConn)(w, r)
		default:
			respond.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		}
	})
	mux.HandleFunc("/api/cart/sync", cart.SyncCartHandler(dbConn))
	mux.HandleFunc("/api/cart/", cart.ItemHandler(dbConn))

	mux.HandleFunc("/api/builder/components", builder.ComponentsHandler(dbConn))

	mux.HandleFunc("/api/products", catalog.ListProductsHandler(dbConn))
	mux.HandleFunc("/api/products/search", catalog.SearchProductsHandler(dbConn))
	mux.HandleFunc("/api/products/", catalog.GetProductHandler(dbConn))
	mux.HandleFunc("/api/categories", catalog.ListCategoriesHandler(dbConn))
	mux.HandleFunc("/api/brands", catalog.ListBrandsHandler(dbConn))
	mux.HandleFunc("/api/packages", catalog.ListPackagesHandler(dbConn))

	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			orders.ListOrdersHandler(dbConn)(w, r)
		case http.MethodPost:
			orders.PlaceOrderHandler(dbConn)(w, r)
		default:
			respond.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		}
	})

	mux.HandleFunc("/api/profile", profile.Handler(dbConn))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			respond.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		}
	})
}
