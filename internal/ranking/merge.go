package ranking

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/models"
)

// scope is one request's visible ranking association: car id to score for a
// single user, addressable only through the scope's token.
type scope struct {
	token  string
	userID int64
	scores map[int64]float64
}

// Stage makes ranking entries addressable by car id for the duration of one
// query execution. The association is a request-scoped value passed into the
// callback, never shared between requests; each in-flight scope is tracked
// under a unique token so cleanup only ever removes its own entry, and
// concurrent requests for the same user cannot see or delete each other's
// scores.
type Stage struct {
	active sync.Map // token -> *scope
	logger logger.Logger
}

func NewStage(log logger.Logger) *Stage {
	return &Stage{
		logger: log.WithFields(map[string]interface{}{"component": "ranking-merge"}),
	}
}

// WithRanking builds the car-id to score map from entries, runs fn with it,
// and releases the association on every exit path. At most one score per
// car id is visible; the first entry wins on duplicates.
func (s *Stage) WithRanking(ctx context.Context, userID int64, entries []models.RankingEntry, fn func(visible map[int64]float64) error) error {
	visible := make(map[int64]float64, len(entries))
	for _, e := range entries {
		if _, dup := visible[e.CarID]; dup {
			continue
		}
		visible[e.CarID] = e.RankScore
	}

	sc := &scope{
		token:  uuid.NewString(),
		userID: userID,
		scores: visible,
	}
	s.active.Store(sc.token, sc)
	defer s.active.Delete(sc.token)

	s.logger.Debug("ranking scope opened", map[string]interface{}{
		"userId":     userID,
		"token":      sc.token,
		"scoreCount": len(visible),
	})

	return fn(visible)
}

// ActiveScopes reports the number of in-flight ranking scopes.
func (s *Stage) ActiveScopes() int {
	n := 0
	s.active.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
