package models

// Car is a catalog item. The catalog is read-only from this service's
// perspective; ingestion happens elsewhere.
type Car struct {
	ID      int64   `json:"id"`
	BrandID int64   `json:"brand_id"`
	Model   string  `json:"model"`
	Price   float64 `json:"price"`
}

// Brand is referenced by cars, many-to-one.
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MatchLabel is the derived match-quality category for a car given the
// requesting user's preferences.
type MatchLabel string

const (
	LabelPerfectMatch MatchLabel = "perfect_match"
	LabelGoodMatch    MatchLabel = "good_match"
	LabelNone         MatchLabel = ""
)

// SortRank orders labels for result sorting: perfect before good before none.
func (l MatchLabel) SortRank() int {
	switch l {
	case LabelPerfectMatch:
		return 0
	case LabelGoodMatch:
		return 1
	default:
		return 2
	}
}

// RankedCar is the response item produced once per request, never persisted.
// RankScore and Label are null when absent.
type RankedCar struct {
	ID        int64    `json:"id"`
	Brand     Brand    `json:"brand"`
	Model     string   `json:"model"`
	Price     float64  `json:"price"`
	RankScore *float64 `json:"rank_score"`
	Label     *string  `json:"label"`
}
