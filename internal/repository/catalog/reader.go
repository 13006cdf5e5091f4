// Package catalog reads product rows from the relational catalog table.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	domprod "github.com/kailas-cloud/catalogsearch/internal/domain/catalog/product"
)

// DefaultTable is the catalog table populated by the ETL.
const DefaultTable = "ecommerce_products_mini"

var columns = []string{
	"product_id", "title", "product_details", "brand", "category", "colour",
	"size", "competitor", "selling_price", "mrp", "star_rating", "image_url", "product_url",
}

// schema.table or table, unquoted.
var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Reader streams catalog rows.
type Reader struct {
	db    *sql.DB
	table string
}

// Open connects with the named database/sql driver ("postgres" in production).
func Open(ctx context.Context, driver, dsn, table string) (*Reader, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	r, err := New(conn, table)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return r, nil
}

// New wraps an open connection. An empty table selects DefaultTable.
func New(conn *sql.DB, table string) (*Reader, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid catalog table name %q", table)
	}
	return &Reader{db: conn, table: table}, nil
}

// Close releases the connection pool.
func (r *Reader) Close() error {
	return r.db.Close() //nolint:wrapcheck // passthrough
}

// Count returns the number of catalog rows.
func (r *Reader) Count(ctx context.Context) (int, error) {
	var n int
	q := "SELECT COUNT(*) FROM " + r.table
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return n, nil
}

// Each calls fn for every row in product_id order. A non-nil error from fn stops the scan.
func (r *Reader) Each(ctx context.Context, fn func(domprod.Row) error) error {
	q := "SELECT " + strings.Join(columns, ", ") + " FROM " + r.table + " ORDER BY product_id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("query %s: %w", r.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return fmt.Errorf("scan %s: %w", r.table, err)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", r.table, err)
	}
	return nil
}

func scanRow(rows *sql.Rows) (domprod.Row, error) {
	var (
		id                                      sql.NullString
		title, details, brand, category, colour sql.NullString
		size, competitor, imageURL, productURL  sql.NullString
		sellingPrice, mrp, starRating           sql.NullFloat64
	)
	err := rows.Scan(
		&id, &title, &details, &brand, &category, &colour,
		&size, &competitor, &sellingPrice, &mrp, &starRating, &imageURL, &productURL,
	)
	if err != nil {
		return domprod.Row{}, err //nolint:wrapcheck // wrapped by caller
	}
	return domprod.Row{
		ProductID:      id.String,
		Title:          nullString(title),
		ProductDetails: nullString(details),
		Brand:          nullString(brand),
		Category:       nullString(category),
		Colour:         nullString(colour),
		Size:           nullString(size),
		Competitor:     nullString(competitor),
		SellingPrice:   nullFloat(sellingPrice),
		MRP:            nullFloat(mrp),
		StarRating:     nullFloat(starRating),
		ImageURL:       nullString(imageURL),
		ProductURL:     nullString(productURL),
	}, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}
