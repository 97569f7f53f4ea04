package catalog

import (
	"sort"

	"github.com/wesleydiniz/car-market-app/internal/models"
)

// PageSize is the fixed result page size.
const PageSize = 100

// BuildResult turns filtered catalog rows into the ordered, labeled,
// paginated result set for one request. visible is the request-scoped
// car id to rank-score association exposed by the merge stage.
func BuildResult(user *models.User, filters models.SearchFilters, visible map[int64]float64, rows []Row) []models.RankedCar {
	seen := make(map[int64]bool, len(rows))
	results := make([]models.RankedCar, 0, len(rows))

	for _, row := range rows {
		// At most one result per car id regardless of join paths.
		if seen[row.ID] {
			continue
		}
		seen[row.ID] = true

		var score *float64
		if s, ok := visible[row.ID]; ok {
			v := s
			score = &v
		}

		label := labelFor(user, row)
		var labelPtr *string
		if label != models.LabelNone {
			v := string(label)
			labelPtr = &v
		}

		results = append(results, models.RankedCar{
			ID:        row.ID,
			Brand:     models.Brand{ID: row.BrandID, Name: row.BrandName},
			Model:     row.Model,
			Price:     row.Price,
			RankScore: score,
			Label:     labelPtr,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		ri, rj := labelRank(results[i].Label), labelRank(results[j].Label)
		if ri != rj {
			return ri < rj
		}
		si, sj := orderingScore(results[i]), orderingScore(results[j])
		if si != sj {
			return si > sj
		}
		return results[i].Price < results[j].Price
	})

	return paginate(results, filters.Page)
}

// labelFor derives the match label from the user's preferences:
// perfect_match when the brand is preferred and the price falls within the
// preferred range, good_match when only the brand is preferred.
func labelFor(user *models.User, row Row) models.MatchLabel {
	if !user.PrefersBrand(row.BrandID) {
		return models.LabelNone
	}
	if user.PriceInPreferredRange(row.Price) {
		return models.LabelPerfectMatch
	}
	return models.LabelGoodMatch
}

func labelRank(label *string) int {
	if label == nil {
		return models.LabelNone.SortRank()
	}
	return models.MatchLabel(*label).SortRank()
}

// orderingScore treats an absent score as 0 for ordering purposes only; the
// displayed value stays null.
func orderingScore(r models.RankedCar) float64 {
	if r.RankScore == nil {
		return 0
	}
	return *r.RankScore
}

func paginate(results []models.RankedCar, page int) []models.RankedCar {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(results) {
		return []models.RankedCar{}
	}
	end := start + PageSize
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}
