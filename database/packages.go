package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"drerwrk/model"
)

// GetActivePackages lists the bundles currently offered on the storefront.
func GetActivePackages(dbtx *sqlx.DB) ([]model.Package, error) {
	packages := []model.Package{}
	err := dbtx.Select(&packages, `
		SELECT id, name, image_url, price_complete, price_unit_only, description, is_active
		FROM packages WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select active packages: %w", err)
	}
	return packages, nil
}
