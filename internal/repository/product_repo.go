package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

// ProductRepo reads the catalog table. Products are owned by another team, so
// rows are normalized rather than trusted: ids become strings, missing vendor
// or category become "", and a missing price becomes NaN so pricing flags it.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, models.ErrProductNotFound
	}

	query := `SELECT id, price, vendor_id, category FROM products WHERE id = $1;`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, numericID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	query := `SELECT id, price, vendor_id, category FROM products WHERE category = $1 ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		id       int64
		price    sql.NullFloat64
		vendor   sql.NullString
		category sql.NullString
	)
	if err := row.Scan(&id, &price, &vendor, &category); err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:       strconv.FormatInt(id, 10),
		Price:    math.NaN(),
		Vendor:   vendor.String,
		Category: category.String,
	}
	if price.Valid {
		p.Price = price.Float64
	}
	return p, nil
}
