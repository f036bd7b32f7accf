package repository

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/popupcity/portal_api/internal/models"
)

// CitizenRepository provides data access methods for citizens table.
type CitizenRepository struct {
	db *sqlx.DB
}

// NewCitizenRepository creates a new CitizenRepository.
func NewCitizenRepository(db *sqlx.DB) *CitizenRepository {
	return &CitizenRepository{db: db}
}

// GetByID finds a citizen by id.
func (r *CitizenRepository) GetByID(id int) (*models.Citizen, error) {
	const q = `SELECT * FROM citizens WHERE id = $1 LIMIT 1`
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var c models.Citizen
	if err := stmt.Get(&c, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}

// Upsert returns the citizen registered with email, creating it on first login.
func (r *CitizenRepository) Upsert(email string) (*models.Citizen, error) {
	const q = `
        INSERT INTO citizens (email) VALUES ($1)
        ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
        RETURNING *`

	var c models.Citizen
	if err := r.db.QueryRowx(q, strings.ToLower(strings.TrimSpace(email))).StructScan(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateName stores the name the citizen used on their latest application.
func (r *CitizenRepository) UpdateName(id int, firstName, lastName string) error {
	const q = `UPDATE citizens SET first_name = $2, last_name = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, firstName, lastName)
	return err
}
