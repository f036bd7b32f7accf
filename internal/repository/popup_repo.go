package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/popupcity/portal_api/internal/models"
)

// PopupRepository provides data access methods for popup_cities table.
type PopupRepository struct {
	db *sqlx.DB
}

// NewPopupRepository creates a new PopupRepository.
func NewPopupRepository(db *sqlx.DB) *PopupRepository {
	return &PopupRepository{db: db}
}

// List returns every popup city, soonest first.
func (r *PopupRepository) List() ([]models.Popup, error) {
	const q = `SELECT * FROM popup_cities ORDER BY start_date NULLS LAST, id`
	var popups []models.Popup
	if err := r.db.Select(&popups, q); err != nil {
		return nil, err
	}
	return popups, nil
}

func (r *PopupRepository) getBy(where string, arg any) (*models.Popup, error) {
	stmt, err := r.db.Preparex(`SELECT * FROM popup_cities WHERE ` + where + ` LIMIT 1`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var p models.Popup
	if err := stmt.Get(&p, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// GetByID finds a popup by id.
func (r *PopupRepository) GetByID(id int) (*models.Popup, error) {
	return r.getBy("id = $1", id)
}

// GetBySlug finds a popup by its URL slug.
func (r *PopupRepository) GetBySlug(slug string) (*models.Popup, error) {
	return r.getBy("slug = $1", slug)
}
