package models

// User holds the preference state used for labeling. Owned by the
// user-management collaborator; read-only here.
type User struct {
	ID                int64
	Email             string
	PreferredPriceMin *float64 // nil = unbounded below
	PreferredPriceMax *float64 // nil = unbounded above
	PreferredBrandIDs map[int64]struct{}
}

// PrefersBrand reports whether brandID is in the user's preferred set.
func (u *User) PrefersBrand(brandID int64) bool {
	_, ok := u.PreferredBrandIDs[brandID]
	return ok
}

// PriceInPreferredRange reports whether price falls within the user's
// preferred range. Bounds are inclusive; an absent bound is unbounded in
// that direction.
func (u *User) PriceInPreferredRange(price float64) bool {
	if u.PreferredPriceMin != nil && price < *u.PreferredPriceMin {
		return false
	}
	if u.PreferredPriceMax != nil && price > *u.PreferredPriceMax {
		return false
	}
	return true
}
