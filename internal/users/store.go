package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/models"
)

var (
	ErrUserNotFound     = errors.New("USER_NOT_FOUND")
	ErrUserLookupFailed = errors.New("USER_LOOKUP_FAILED")
)

// Store provides read-only access to users and their preferences.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "user-store"}),
	}
}

// Find loads a user with their preferred price range and preferred brand
// set. An unknown id returns ErrUserNotFound; any other data-access error
// wraps ErrUserLookupFailed.
func (s *Store) Find(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{
		PreferredBrandIDs: make(map[int64]struct{}),
	}

	var priceMin, priceMax sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, preferred_price_min, preferred_price_max
		FROM users
		WHERE id = $1`, userID).Scan(
		&user.ID, &user.Email, &priceMin, &priceMax,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: userId %d", ErrUserNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserLookupFailed, err)
	}

	if priceMin.Valid {
		user.PreferredPriceMin = &priceMin.Float64
	}
	if priceMax.Valid {
		user.PreferredPriceMax = &priceMax.Float64
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT brand_id
		FROM user_preferred_brands
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserLookupFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var brandID int64
		if err := rows.Scan(&brandID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUserLookupFailed, err)
		}
		user.PreferredBrandIDs[brandID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserLookupFailed, err)
	}

	return user, nil
}
