package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/popupcity/portal_api/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListActiveByPopup returns the active catalog of a popup in display order:
// memberships, months, then weeks by start date.
func (r *ProductRepository) ListActiveByPopup(popupID int) ([]models.Product, error) {
	const q = `
        SELECT * FROM products
        WHERE popup_city_id = $1 AND is_active = true
        ORDER BY CASE category
                     WHEN 'patreon' THEN 0
                     WHEN 'supporter' THEN 1
                     WHEN 'month' THEN 2
                     ELSE 3
                 END,
                 start_date NULLS LAST, id`

	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var products []models.Product
	if err := stmt.Select(&products, popupID); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var p models.Product
	if err := stmt.Get(&p, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// GetByIDs returns the products with the given ids, active or not.
func (r *ProductRepository) GetByIDs(ids []int) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `SELECT * FROM products WHERE id = ANY($1) ORDER BY id`
	var products []models.Product
	if err := r.db.Select(&products, q, pq.Array(ids)); err != nil {
		return nil, err
	}
	return products, nil
}
