package model

type Product struct {
	ID          int64    `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Description string   `db:"description" json:"description"`
	Category    string   `db:"category" json:"category"`
	BrandID     *int64   `db:"brand_id" json:"brand_id"`
	BrandName   *string  `db:"brand_name" json:"brand_name,omitempty"`
	Price       float64  `db:"price" json:"price"`
	SalePrice   *float64 `db:"sale_price" json:"sale_price"`

	// Kept in the table as a generated column so price sorting and the cart
	// join read the same value the frontend displays.
	EffectivePrice float64 `db:"effective_price" json:"effective_price"`

	ImageURL string `db:"image" json:"image"`
	Stock    int    `db:"stock" json:"stock"`

	// Compatibility attributes, set only on builder-relevant categories.
	CPUSocketID *string `db:"cpu_socket_id" json:"cpu_socket_id"`
	RAMTypeID   *string `db:"ram_type_id" json:"ram_type_id"`
}

type Category struct {
	Name     string `db:"name" json:"name"`
	ImageURL string `db:"image_url" json:"image_url"`
}

type Brand struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	LogoURL string `db:"logo_url" json:"logo_url"`
}

// Package is a pre-assembled bundle sold as a single virtual cart item
// (cart id "pkg-<id>").
type Package struct {
	ID            int64    `db:"id" json:"id"`
	Name          string   `db:"name" json:"name"`
	ImageURL      string   `db:"image_url" json:"image_url"`
	PriceComplete float64  `db:"price_complete" json:"price_complete"`
	PriceUnitOnly *float64 `db:"price_unit_only" json:"price_unit_only"`
	Description   string   `db:"description" json:"description"`
	IsActive      bool     `db:"is_active" json:"is_active"`
}

type ProductPage struct {
	Products      []Product `json:"products"`
	TotalProducts int       `json:"totalProducts"`
	TotalPages    int       `json:"totalPages"`
	CurrentPage   int       `json:"currentPage"`
}
