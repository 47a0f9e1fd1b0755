package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

const offerColumns = `id, scope, target_id, discount_kind, discount_value, active, description, created_at, updated_at`

type OfferRepo struct {
	db *sql.DB
}

func NewOfferRepo(db *sql.DB) *OfferRepo {
	return &OfferRepo{db: db}
}

// Create inserts o and refreshes it with the stored value and timestamps.
func (r *OfferRepo) Create(ctx context.Context, o *models.Offer) error {
	query := `
		INSERT INTO offers (id, scope, target_id, discount_kind, discount_value, active, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING discount_value, created_at, updated_at;
	`
	err := r.db.QueryRowContext(ctx, query,
		o.ID,
		string(o.Scope),
		o.TargetID,
		string(o.DiscountKind),
		o.DiscountValue,
		o.Active,
		o.Description,
	).Scan(&o.DiscountValue, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

func (r *OfferRepo) Update(ctx context.Context, o *models.Offer) error {
	query := `
		UPDATE offers
		SET scope = $2, target_id = $3, discount_kind = $4, discount_value = $5,
		    active = $6, description = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING discount_value, created_at, updated_at;
	`
	err := r.db.QueryRowContext(ctx, query,
		o.ID,
		string(o.Scope),
		o.TargetID,
		string(o.DiscountKind),
		o.DiscountValue,
		o.Active,
		o.Description,
	).Scan(&o.DiscountValue, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrOfferNotFound
	}
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}
	return nil
}

func (r *OfferRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if n == 0 {
		return models.ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepo) SetActive(ctx context.Context, id string, active bool) (*models.Offer, error) {
	query := `
		UPDATE offers SET active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + offerColumns + `;`
	o, err := scanOffer(r.db.QueryRowContext(ctx, query, id, active))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set offer active: %w", err)
	}
	return o, nil
}

func (r *OfferRepo) Get(ctx context.Context, id string) (*models.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1;`
	o, err := scanOffer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

func (r *OfferRepo) List(ctx context.Context) ([]models.Offer, error) {
	return r.query(ctx, `SELECT `+offerColumns+` FROM offers ORDER BY created_at, id;`)
}

// ListActive returns active offers in creation order, which is the order the
// resolver uses to break ties.
func (r *OfferRepo) ListActive(ctx context.Context) ([]models.Offer, error) {
	return r.query(ctx, `SELECT `+offerColumns+` FROM offers WHERE active ORDER BY created_at, id;`)
}

func (r *OfferRepo) query(ctx context.Context, query string, args ...any) ([]models.Offer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOffer reads stored values as-is. Rows that no longer satisfy the offer
// invariants are left for the resolver to report and skip.
func scanOffer(row rowScanner) (*models.Offer, error) {
	var (
		o           models.Offer
		scope, kind string
	)
	err := row.Scan(
		&o.ID,
		&scope,
		&o.TargetID,
		&kind,
		&o.DiscountValue,
		&o.Active,
		&o.Description,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Scope = models.Scope(scope)
	o.DiscountKind = models.DiscountKind(kind)
	return &o, nil
}
