package models

// RankingEntry is a per-user relevance score for one car, produced by the
// ranking origin or a cache tier. Ephemeral: it exists only for the duration
// of one query execution.
type RankingEntry struct {
	CarID     int64   `json:"car_id"`
	RankScore float64 `json:"rank_score"`
}
