package models

// SearchFilters carries the full inbound filter set for one request.
type SearchFilters struct {
	UserID   int64
	Query    string
	PriceMin *float64
	PriceMax *float64
	Page     int
}

// Normalized returns a copy with invalid values clamped: a non-positive
// page behaves as page 1.
func (f SearchFilters) Normalized() SearchFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	return f
}
