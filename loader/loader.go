// Package loader applies the database schema at startup and seeds the
// catalog from a CSV file on first run.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"

	"drerwrk/database"
)

// InitDatabase applies the schema and, when the catalog is still empty,
// loads the seed CSV.
func InitDatabase(db *sqlx.DB, seedPath string) error {
	log.Println("Applying database schema...")
	if err := database.ApplySchema(db); err != nil {
		return err
	}
	log.Println("Schema applied successfully.")

	var productCount int
	if err := db.Get(&productCount, `SELECT COUNT(*) FROM products`); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount > 0 {
		return nil
	}

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("WARN: %s not found, starting with an empty catalog.", seedPath)
		return nil
	}
	log.Printf("Loading %s...", seedPath)
	if err := SeedProducts(db, seedPath); err != nil {
		return fmt.Errorf("failed to load %s: %w", seedPath, err)
	}
	log.Println("Catalog seed loaded successfully.")
	return nil
}

// SeedProducts loads catalog rows from a CSV with a header row:
// name,description,category,brand,price,sale_price,image,stock,cpu_socket_id,ram_type_id
func SeedProducts(db *sqlx.DB, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 10

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	brandIDs := map[string]int64{}
	lineNo := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read seed row: %w", err)
		}
		lineNo++
		if lineNo == 1 {
			// header
			continue
		}

		name, description, category := record[0], record[1], record[2]
		brand := record[3]
		price, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return fmt.Errorf("seed row %d: bad price %q: %w", lineNo, record[4], err)
		}

		var salePrice *float64
		if record[5] != "" {
			v, err := strconv.ParseFloat(record[5], 64)
			if err != nil {
				return fmt.Errorf("seed row %d: bad sale price %q: %w", lineNo, record[5], err)
			}
			salePrice = &v
		}

		image := record[6]
		stock := 0
		if record[7] != "" {
			stock, err = strconv.Atoi(record[7])
			if err != nil {
				return fmt.Errorf("seed row %d: bad stock %q: %w", lineNo, record[7], err)
			}
		}

		var cpuSocketID, ramTypeID *string
		if record[8] != "" {
			cpuSocketID = &record[8]
		}
		if record[9] != "" {
			ramTypeID = &record[9]
		}

		var brandID *int64
		if brand != "" {
			id, ok := brandIDs[brand]
			if !ok {
				id, err = upsertBrand(tx, brand)
				if err != nil {
					return err
				}
				brandIDs[brand] = id
			}
			brandID = &id
		}

		if _, err := tx.Exec(`INSERT OR IGNORE INTO categories (name) VALUES (?)`, category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category, err)
		}

		_, err = tx.Exec(`
			INSERT INTO products (name, description, category, brand_id, price, sale_price,
			                      image, stock, cpu_socket_id, ram_type_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			name, description, category, brandID, price, salePrice, image, stock, cpuSocketID, ramTypeID)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", name, err)
		}
	}

	return tx.Commit()
}

func upsertBrand(tx *sqlx.Tx, name string) (int64, error) {
	if _, err := tx.Exec(`INSERT OR IGNORE INTO brands (name) VALUES (?)`, name); err != nil {
		return 0, fmt.Errorf("failed to seed brand %s: %w", name, err)
	}
	var id int64
	if err := tx.Get(&id, `SELECT id FROM brands WHERE name = ?`, name); err != nil {
		return 0, fmt.Errorf("failed to look up brand %s: %w", name, err)
	}
	return id, nil
}
