package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/xeipuuv/gojsonschema"

	"github.com/wesleydiniz/car-market-app/internal/common/config"
	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/models"
)

var (
	ErrOriginUnavailable = errors.New("ORIGIN_UNAVAILABLE")
)

// rankingPayloadSchema is the expected shape of the origin response: a
// sequence of {car_id, rank_score} pairs. Anything else is a parse failure.
const rankingPayloadSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"car_id": {"type": "number"},
			"rank_score": {"type": "number"}
		},
		"required": ["car_id", "rank_score"]
	}
}`

// OriginClient fetches raw per-user ranking pairs from the external
// recommendation origin. One outbound call, bounded timeout, no retries:
// retry policy belongs to the caller via the cache fallback path.
type OriginClient struct {
	originURL  string
	httpClient *http.Client
	schema     *gojsonschema.Schema
	logger     logger.Logger
}

func NewOriginClient(cfg config.RankingConfig, log logger.Logger) (*OriginClient, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(rankingPayloadSchema))
	if err != nil {
		return nil, fmt.Errorf("compile ranking payload schema: %w", err)
	}

	return &OriginClient{
		originURL: cfg.OriginURL,
		httpClient: &http.Client{
			Timeout: cfg.OriginTimeout(),
		},
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"component": "ranking-origin"}),
	}, nil
}

// FetchRanking performs the network call for one user. Network errors,
// non-success statuses and malformed payloads all collapse to
// ErrOriginUnavailable.
func (c *OriginClient) FetchRanking(ctx context.Context, userID int64) ([]models.RankingEntry, error) {
	reqURL, err := c.buildURL(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOriginUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOriginUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOriginUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: origin returned status %d", ErrOriginUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOriginUnavailable, err)
	}

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil || !result.Valid() {
		return nil, fmt.Errorf("%w: malformed ranking payload", ErrOriginUnavailable)
	}

	var entries []models.RankingEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOriginUnavailable, err)
	}

	c.logger.Debug("fetched ranking from origin", map[string]interface{}{
		"userId":     userID,
		"entryCount": len(entries),
	})

	return entries, nil
}

func (c *OriginClient) buildURL(userID int64) (string, error) {
	u, err := url.Parse(c.originURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("user_id", strconv.FormatInt(userID, 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
