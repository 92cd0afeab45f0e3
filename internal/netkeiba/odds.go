package netkeiba

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/yourusername/value-hunter/internal/metrics"
	"github.com/yourusername/value-hunter/internal/models"
)

// statusResult is the only envelope status that carries published odds.
const statusResult = "result"

// oddsEnvelope is the win-odds API response. Anything other than
// status=="result" means the odds are not published yet.
type oddsEnvelope struct {
	Status string       `json:"status"`
	Reason string       `json:"reason"`
	Data   *oddsPayload `json:"data"`
}

type oddsPayload struct {
	// market type -> zero-padded horse number -> [oddsText, _, popularityText]
	Odds map[string]map[string][]string `json:"odds"`
}

// FetchWinOdds retrieves current win odds and popularity for a race, keyed
// by zero-padded betting number. Unpublished odds return (nil, nil); a race
// card is valid without them. Only transport and decode failures return an
// error, and callers are expected to degrade those to "no odds" as well.
func (c *Client) FetchWinOdds(ctx context.Context, raceID string) (models.WinOdds, error) {
	cacheKey := "odds:" + raceID
	if cached, found := c.cache.Get(cacheKey); found {
		if odds, ok := cached.(models.WinOdds); ok {
			return odds, nil
		}
	}

	resp, err := c.get(ctx, c.oddsURL(raceID))
	if err != nil {
		metrics.OddsFetchFailuresTotal.Inc()
		return nil, NewSourceError("win_odds", ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.OddsFetchFailuresTotal.Inc()
		return nil, NewSourceError("win_odds", ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var envelope oddsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		metrics.OddsFetchFailuresTotal.Inc()
		return nil, NewSourceError("win_odds", ErrCodeInvalidData, "failed to decode odds response", err)
	}

	if envelope.Status != statusResult {
		reason := envelope.Reason
		if reason == "" {
			reason = envelope.Status
		}
		c.logger.WithField("reason", reason).Info("odds not published for race")
		return nil, nil
	}
	if envelope.Data == nil {
		return nil, nil
	}

	// odds["1"] is the win market
	winRaw := envelope.Data.Odds["1"]
	if len(winRaw) == 0 {
		return nil, nil
	}

	odds := models.WinOdds{}
	for number, values := range winRaw {
		if len(values) < 3 {
			continue
		}
		odds[number] = models.OddsEntry{
			Odds:       parseOddsValue(values[0]),
			Popularity: parsePopularityValue(values[2]),
		}
	}
	if len(odds) == 0 {
		return nil, nil
	}

	c.cache.Set(cacheKey, odds, 0)
	metrics.OddsFetchesTotal.Inc()
	return odds, nil
}

// parseOddsValue parses an odds string; unparseable text yields nil rather
// than discarding the entry.
func parseOddsValue(text string) *float64 {
	if text == "" {
		return nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}

func parsePopularityValue(text string) *int {
	if text == "" {
		return nil
	}
	p, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	return &p
}
