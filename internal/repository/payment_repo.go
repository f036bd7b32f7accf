package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/popupcity/portal_api/internal/models"
)

// PaymentRepository handles data access for payments and their lines.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment with its lines. A payment created as approved
// grants its passes in the same transaction.
func (r *PaymentRepository) Create(p *models.Payment) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
        INSERT INTO payments (external_id, application_id, status, amount, currency,
                              coupon_code, discount_value, checkout_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRowx(q,
		p.ExternalID, p.ApplicationID, p.Status, p.Amount, p.Currency,
		p.CouponCode, p.DiscountValue, p.CheckoutURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	const line = `
        INSERT INTO payment_products (payment_id, product_id, attendee_id, name, category, price)
        VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range p.Products {
		pp := &p.Products[i]
		pp.PaymentID = p.ID
		if _, err := tx.Exec(line, pp.PaymentID, pp.ProductID, pp.AttendeeID, pp.Name, pp.Category, pp.Price); err != nil {
			return fmt.Errorf("insert payment line: %w", err)
		}
	}

	if p.Status == models.PaymentApproved {
		if err := grantProducts(tx, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetByExternalID returns a payment with its lines.
func (r *PaymentRepository) GetByExternalID(externalID string) (*models.Payment, error) {
	stmt, err := r.db.Preparex(`SELECT * FROM payments WHERE external_id = $1 LIMIT 1`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var p models.Payment
	if err := stmt.Get(&p, externalID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	if err := r.db.Select(&p.Products, `SELECT * FROM payment_products WHERE payment_id = $1 ORDER BY attendee_id, product_id`, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByApplication returns the payment history of an application with lines.
func (r *PaymentRepository) ListByApplication(applicationID int) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Select(&payments, `SELECT * FROM payments WHERE application_id = $1 ORDER BY created_at DESC`, applicationID); err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return payments, nil
	}

	ids := make([]int, len(payments))
	byID := make(map[int]int, len(payments))
	for i, p := range payments {
		ids[i] = p.ID
		byID[p.ID] = i
	}

	var lines []models.PaymentProduct
	if err := r.db.Select(&lines, `SELECT * FROM payment_products WHERE payment_id = ANY($1) ORDER BY attendee_id, product_id`, pq.Array(ids)); err != nil {
		return nil, err
	}
	for _, l := range lines {
		i := byID[l.PaymentID]
		payments[i].Products = append(payments[i].Products, l)
	}
	return payments, nil
}

// Transition moves a pending payment to status. It returns false when the
// payment was no longer pending. Approving grants the passes and counts the
// coupon use.
func (r *PaymentRepository) Transition(p *models.Payment, status models.PaymentStatus) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	const q = `
        UPDATE payments SET status = $2, updated_at = NOW()
        WHERE id = $1 AND status = $3
        RETURNING updated_at`
	if err := tx.QueryRowx(q, p.ID, status, models.PaymentPending).Scan(&p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	p.Status = status

	if status == models.PaymentApproved {
		if err := grantProducts(tx, p); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}

// ListPendingBefore returns pending payments created before cutoff.
func (r *PaymentRepository) ListPendingBefore(cutoff time.Time, limit int) ([]models.Payment, error) {
	const q = `
        SELECT * FROM payments
        WHERE status = $1 AND created_at < $2
        ORDER BY created_at
        LIMIT $3`
	var payments []models.Payment
	if err := r.db.Select(&payments, q, models.PaymentPending, cutoff, limit); err != nil {
		return nil, err
	}
	return payments, nil
}

func grantProducts(tx *sqlx.Tx, p *models.Payment) error {
	const grant = `
        INSERT INTO attendee_products (attendee_id, product_id, payment_id)
        SELECT attendee_id, product_id, payment_id FROM payment_products WHERE payment_id = $1
        ON CONFLICT (attendee_id, product_id) DO NOTHING`
	if _, err := tx.Exec(grant, p.ID); err != nil {
		return fmt.Errorf("grant products: %w", err)
	}

	if p.CouponCode == nil || *p.CouponCode == "" {
		return nil
	}
	const use = `
        UPDATE coupon_codes SET current_uses = current_uses + 1
        WHERE UPPER(code) = UPPER($1)
          AND popup_city_id = (SELECT popup_city_id FROM applications WHERE id = $2)`
	if _, err := tx.Exec(use, *p.CouponCode, p.ApplicationID); err != nil {
		return fmt.Errorf("count coupon use: %w", err)
	}
	return nil
}
