package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/models"
)

var (
	ErrCatalogUnavailable = errors.New("CATALOG_UNAVAILABLE")
)

// Row is one catalog car joined with its brand.
type Row struct {
	ID        int64
	BrandID   int64
	BrandName string
	Model     string
	Price     float64
}

// Store provides read-only access to the car catalog.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-store"}),
	}
}

// Search returns cars joined with brands, restricted by the free-text brand
// filter (case-insensitive substring) and the price bounds when provided.
// Ordering, labeling and pagination happen in the engine. Any data-access
// error surfaces as ErrCatalogUnavailable.
func (s *Store) Search(ctx context.Context, filters models.SearchFilters) ([]Row, error) {
	query := `SELECT cars.id, cars.model, cars.price, brands.id, brands.name
	          FROM cars
	          JOIN brands ON brands.id = cars.brand_id`

	var args []interface{}
	where := ""
	addCond := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	if filters.Query != "" {
		args = append(args, "%"+filters.Query+"%")
		addCond("brands.name ILIKE $" + strconv.Itoa(len(args)))
	}
	if filters.PriceMin != nil {
		args = append(args, *filters.PriceMin)
		addCond("cars.price >= $" + strconv.Itoa(len(args)))
	}
	if filters.PriceMax != nil {
		args = append(args, *filters.PriceMax)
		addCond("cars.price <= $" + strconv.Itoa(len(args)))
	}

	query += where + " ORDER BY cars.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Model, &r.Price, &r.BrandID, &r.BrandName); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	return results, nil
}
