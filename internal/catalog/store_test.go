package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/models"
)

func setupMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, logger.NewTestLogger(t)), mock
}

func carColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "model", "price", "brand_id", "brand_name"})
}

func TestStore_Search_NoFilters(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT cars.id, cars.model, cars.price, brands.id, brands.name").
		WillReturnRows(carColumns().
			AddRow(1, "Corolla", 36000.0, 10, "Toyota").
			AddRow(2, "Golf", 28000.0, 11, "Volkswagen"))

	rows, err := store.Search(context.Background(), models.SearchFilters{UserID: 42, Page: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{ID: 1, BrandID: 10, BrandName: "Toyota", Model: "Corolla", Price: 36000}, rows[0])
	assert.Equal(t, Row{ID: 2, BrandID: 11, BrandName: "Volkswagen", Model: "Golf", Price: 28000}, rows[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Search_QueryFilter(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery(`brands.name ILIKE \$1`).
		WithArgs("%toy%").
		WillReturnRows(carColumns().AddRow(1, "Corolla", 36000.0, 10, "Toyota"))

	rows, err := store.Search(context.Background(), models.SearchFilters{UserID: 42, Query: "toy", Page: 1})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Search_PriceBounds(t *testing.T) {
	store, mock := setupMockDB(t)

	min, max := 20000.0, 40000.0
	mock.ExpectQuery(`cars.price >= \$1 AND cars.price <= \$2`).
		WithArgs(min, max).
		WillReturnRows(carColumns().AddRow(1, "Corolla", 36000.0, 10, "Toyota"))

	rows, err := store.Search(context.Background(), models.SearchFilters{UserID: 42, PriceMin: &min, PriceMax: &max, Page: 1})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Search_AllFiltersPlaceholderOrder(t *testing.T) {
	store, mock := setupMockDB(t)

	min, max := 20000.0, 40000.0
	mock.ExpectQuery(`brands.name ILIKE \$1 AND cars.price >= \$2 AND cars.price <= \$3`).
		WithArgs("%toy%", min, max).
		WillReturnRows(carColumns())

	rows, err := store.Search(context.Background(), models.SearchFilters{
		UserID:   42,
		Query:    "toy",
		PriceMin: &min,
		PriceMax: &max,
		Page:     1,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Search_DatabaseError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	rows, err := store.Search(context.Background(), models.SearchFilters{UserID: 42, Page: 1})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Nil(t, rows)
}

func TestStore_Search_ScanError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT").
		WillReturnRows(carColumns().AddRow("not-an-int", "Corolla", 36000.0, 10, "Toyota"))

	_, err := store.Search(context.Background(), models.SearchFilters{UserID: 42, Page: 1})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}
