package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/popupcity/portal_api/internal/models"
)

// ApplicationRepository handles data access for applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `
    first_name, last_name, email, telegram, gender, age,
    organization, role, social_media,
    duration, builder_boolean, builder_description, video_url,
    brings_spouse, spouse_info, spouse_email, brings_kids, kids_info,
    scholarship_request, scholarship_categories, scholarship_details, scholarship_video_url`

func applicationArgs(a *models.Application) []any {
	return []any{
		a.FirstName, a.LastName, a.Email, a.Telegram, a.Gender, a.Age,
		a.Organization, a.Role, a.SocialMedia,
		a.Duration, a.BuilderBoolean, a.BuilderDescription, a.VideoURL,
		a.BringsSpouse, a.SpouseInfo, a.SpouseEmail, a.BringsKids, a.KidsInfo,
		a.ScholarshipRequest, a.ScholarshipCategories, a.ScholarshipDetails, a.ScholarshipVideoURL,
	}
}

// ListByCitizen returns every application of a citizen, newest first.
func (r *ApplicationRepository) ListByCitizen(citizenID int) ([]models.Application, error) {
	const q = `SELECT * FROM applications WHERE citizen_id = $1 ORDER BY created_at DESC`
	var apps []models.Application
	if err := r.db.Select(&apps, q, citizenID); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ApplicationRepository) getOne(q string, args ...any) (*models.Application, error) {
	stmt, err := r.db.Preparex(q)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var a models.Application
	if err := stmt.Get(&a, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &a, nil
}

// GetByID returns a single application.
func (r *ApplicationRepository) GetByID(id int) (*models.Application, error) {
	return r.getOne(`SELECT * FROM applications WHERE id = $1 LIMIT 1`, id)
}

// GetByCitizenAndPopup returns the citizen's application to a popup.
func (r *ApplicationRepository) GetByCitizenAndPopup(citizenID, popupID int) (*models.Application, error) {
	return r.getOne(`SELECT * FROM applications WHERE citizen_id = $1 AND popup_city_id = $2 LIMIT 1`, citizenID, popupID)
}

// GetLatestAccepted returns the citizen's most recent accepted application to
// any popup other than excludePopupID.
func (r *ApplicationRepository) GetLatestAccepted(citizenID, excludePopupID int) (*models.Application, error) {
	return r.getOne(`
        SELECT * FROM applications
        WHERE citizen_id = $1 AND popup_city_id <> $2 AND status = $3
        ORDER BY submitted_at DESC NULLS LAST, created_at DESC
        LIMIT 1`, citizenID, excludePopupID, models.ApplicationAccepted)
}

// CreateWithMainAttendee inserts a draft application together with its main
// attendee in one transaction.
func (r *ApplicationRepository) CreateWithMainAttendee(a *models.Application, main *models.Attendee) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := fmt.Sprintf(`
        INSERT INTO applications (citizen_id, popup_city_id, status, %s)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
                $17, $18, $19, $20, $21, $22, $23, $24, $25)
        RETURNING id, ticket_category, created_at, updated_at`, applicationColumns)

	args := append([]any{a.CitizenID, a.PopupCityID, a.Status}, applicationArgs(a)...)
	if err := tx.QueryRowx(q, args...).Scan(&a.ID, &a.TicketCategory, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	main.ApplicationID = a.ID
	if err := insertAttendee(tx, main); err != nil {
		return fmt.Errorf("insert main attendee: %w", err)
	}
	return tx.Commit()
}

// Update overwrites the citizen-editable fields of an application.
func (r *ApplicationRepository) Update(a *models.Application) error {
	q := fmt.Sprintf(`
        UPDATE applications SET (%s, updated_at) =
            ($2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
             $18, $19, $20, $21, $22, $23, NOW())
        WHERE id = $1
        RETURNING updated_at`, applicationColumns)

	args := append([]any{a.ID}, applicationArgs(a)...)
	return r.db.QueryRowx(q, args...).Scan(&a.UpdatedAt)
}

// Submit moves a draft into review.
func (r *ApplicationRepository) Submit(id int) error {
	const q = `
        UPDATE applications
        SET status = $2, submitted_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND status = $3`
	res, err := r.db.Exec(q, id, models.ApplicationInReview, models.ApplicationDraft)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
