package repository

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/popupcity/portal_api/internal/models"
)

// CouponRepository handles data access for coupon codes.
type CouponRepository struct {
	db *sqlx.DB
}

// NewCouponRepository creates a new CouponRepository.
func NewCouponRepository(db *sqlx.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// GetByCode finds a coupon of a popup by code, case-insensitively.
func (r *CouponRepository) GetByCode(popupID int, code string) (*models.CouponCode, error) {
	const q = `SELECT * FROM coupon_codes WHERE popup_city_id = $1 AND UPPER(code) = $2 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var c models.CouponCode
	if err := stmt.Get(&c, popupID, strings.ToUpper(strings.TrimSpace(code))); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}
