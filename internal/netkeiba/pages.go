package netkeiba

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/yourusername/value-hunter/internal/metrics"
)

// FetchRaceCard retrieves the shutuba_past.html page for a race and returns
// the parsed document. The page is served as EUC-JP and decoded before
// parsing.
func (c *Client) FetchRaceCard(ctx context.Context, raceID string) (*goquery.Document, error) {
	resp, err := c.get(ctx, c.raceCardURL(raceID))
	if err != nil {
		metrics.PageFetchFailuresTotal.Inc()
		return nil, NewSourceError("race_card", ErrCodeNetworkError, "failed to fetch race card", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.PageFetchFailuresTotal.Inc()
		return nil, NewSourceError("race_card", ErrCodeNotFound, fmt.Sprintf("race %s not found", raceID), nil)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.PageFetchFailuresTotal.Inc()
		return nil, NewSourceError("race_card", ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(transform.NewReader(resp.Body, japanese.EUCJP.NewDecoder()))
	if err != nil {
		metrics.PageFetchFailuresTotal.Inc()
		return nil, NewSourceError("race_card", ErrCodeInvalidData, "failed to parse page", err)
	}

	metrics.PageFetchesTotal.Inc()
	return doc, nil
}

// RaceCardFromFile parses a locally saved race-card page. Used for tests
// and offline development.
func RaceCardFromFile(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open race card file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(transform.NewReader(f, japanese.EUCJP.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse race card file: %w", err)
	}
	return doc, nil
}
