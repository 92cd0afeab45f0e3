// Package service orchestrates the extraction pipeline: fetch a race card,
// parse it, merge current odds, and assemble the output document.
package service

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-hunter/internal/metrics"
	"github.com/yourusername/value-hunter/internal/models"
	"github.com/yourusername/value-hunter/internal/netkeiba"
	"github.com/yourusername/value-hunter/internal/parser"
)

// ExtractionService runs one race card through fetch, parse, odds merge,
// and assembly. Every invocation builds fresh state.
type ExtractionService struct {
	client *netkeiba.Client
	logger *logrus.Logger
}

// NewExtractionService creates a new extraction service.
func NewExtractionService(client *netkeiba.Client, logger *logrus.Logger) *ExtractionService {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &ExtractionService{
		client: client,
		logger: logger,
	}
}

// ExtractRace fetches and extracts one race card. Odds retrieval failures
// degrade to "no odds"; the race document is still valid without them.
// Only the page fetch itself can fail the run.
func (s *ExtractionService) ExtractRace(ctx context.Context, raceID string, includeOdds bool) (*models.RaceResult, error) {
	start := time.Now()

	doc, err := s.client.FetchRaceCard(ctx, raceID)
	if err != nil {
		return nil, err
	}

	var odds models.WinOdds
	if includeOdds {
		odds = s.fetchOdds(ctx, raceID)
	}

	result := s.Assemble(doc, raceID, s.client.SourceURL(raceID), odds)

	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	s.logger.WithFields(logrus.Fields{
		"race_id":   raceID,
		"race_name": result.Race.RaceName,
		"horses":    len(result.Horses),
		"has_odds":  odds != nil,
	}).Info("race extracted")

	return result, nil
}

// fetchOdds degrades every odds failure to a nil map.
func (s *ExtractionService) fetchOdds(ctx context.Context, raceID string) models.WinOdds {
	odds, err := s.client.FetchWinOdds(ctx, raceID)
	if err != nil {
		s.logger.WithError(err).WithField("race_id", raceID).Warn("odds fetch failed, continuing without odds")
		return nil
	}
	if odds == nil {
		s.logger.WithField("race_id", raceID).Info("odds not published yet")
	}
	return odds
}

// Assemble builds the output document from an already-parsed page. Exposed
// separately so local files can run through the same path as fetched pages.
func (s *ExtractionService) Assemble(doc *goquery.Document, raceID, sourceURL string, odds models.WinOdds) *models.RaceResult {
	result := models.NewRaceResult(sourceURL, raceID)
	result.Race = parser.ParseRaceInfo(doc)
	result.Horses = parser.ParseHorses(doc)

	if dropped := doc.Find("tr.HorseList").Length() - len(result.Horses); dropped > 0 {
		metrics.RowsDroppedTotal.Add(float64(dropped))
	}

	MergeOdds(result.Horses, odds)

	metrics.ExtractionsTotal.Inc()
	metrics.LastFieldSize.Set(float64(len(result.Horses)))
	metrics.LastExtractionTimestamp.SetToCurrentTime()

	return result
}

// MergeOdds merges the win-odds map into already-extracted horses in place,
// keyed by zero-padded betting number. A nil or empty map is a no-op, and
// unmatched horses keep their odds unset. Never fails.
func MergeOdds(horses []models.Horse, odds models.WinOdds) {
	if len(odds) == 0 {
		return
	}
	for i := range horses {
		entry, ok := odds[horses[i].OddsKey()]
		if !ok {
			continue
		}
		horses[i].Odds = entry.Odds
		horses[i].Popularity = entry.Popularity
	}
}
