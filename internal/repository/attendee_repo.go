package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/popupcity/portal_api/internal/models"
)

// AttendeeRepository handles data access for attendees.
type AttendeeRepository struct {
	db *sqlx.DB
}

// NewAttendeeRepository creates a new AttendeeRepository.
func NewAttendeeRepository(db *sqlx.DB) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// ListByApplication returns the attendees of an application, main first.
func (r *AttendeeRepository) ListByApplication(applicationID int) ([]models.Attendee, error) {
	const q = `
        SELECT * FROM attendees WHERE application_id = $1
        ORDER BY (category = 'main') DESC, id`
	var attendees []models.Attendee
	if err := r.db.Select(&attendees, q, applicationID); err != nil {
		return nil, err
	}
	return attendees, nil
}

// GetByID returns a single attendee.
func (r *AttendeeRepository) GetByID(id int) (*models.Attendee, error) {
	stmt, err := r.db.Preparex(`SELECT * FROM attendees WHERE id = $1 LIMIT 1`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var a models.Attendee
	if err := stmt.Get(&a, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new attendee.
func (r *AttendeeRepository) Create(a *models.Attendee) error {
	return insertAttendee(r.db, a)
}

func insertAttendee(q sqlx.Queryer, a *models.Attendee) error {
	const insert = `
        INSERT INTO attendees (application_id, name, email, category)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return q.QueryRowx(insert, a.ApplicationID, a.Name, a.Email, a.Category).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update changes the name, email and category of an attendee.
func (r *AttendeeRepository) Update(a *models.Attendee) error {
	const q = `
        UPDATE attendees SET name = $2, email = $3, category = $4, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at`
	return r.db.QueryRowx(q, a.ID, a.Name, a.Email, a.Category).Scan(&a.UpdatedAt)
}

// Delete removes an attendee.
func (r *AttendeeRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM attendees WHERE id = $1`, id)
	return err
}

// ListProducts returns every pass purchased for the application's attendees.
func (r *AttendeeRepository) ListProducts(applicationID int) ([]models.AttendeeProduct, error) {
	const q = `
        SELECT ap.* FROM attendee_products ap
        JOIN attendees a ON a.id = ap.attendee_id
        WHERE a.application_id = $1
        ORDER BY ap.attendee_id, ap.product_id`
	var products []models.AttendeeProduct
	if err := r.db.Select(&products, q, applicationID); err != nil {
		return nil, err
	}
	return products, nil
}

// CountProducts returns how many passes were purchased for an attendee.
func (r *AttendeeRepository) CountProducts(attendeeID int) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(1) FROM attendee_products WHERE attendee_id = $1`, attendeeID)
	return n, err
}
