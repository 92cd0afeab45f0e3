package service

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-hunter/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestMergeOdds(t *testing.T) {
	horses := []models.Horse{
		{Number: 1, HorseName: "イチ"},
		{Number: 2, HorseName: "ニ"},
		{Number: 12, HorseName: "ジュウニ"},
	}
	odds := models.WinOdds{
		"01": {Odds: floatPtr(39.6), Popularity: intPtr(10)},
		"12": {Odds: floatPtr(2.1), Popularity: intPtr(1)},
		"99": {Odds: floatPtr(5.0), Popularity: intPtr(3)},
	}

	MergeOdds(horses, odds)

	require.NotNil(t, horses[0].Odds)
	assert.Equal(t, 39.6, *horses[0].Odds)
	require.NotNil(t, horses[0].Popularity)
	assert.Equal(t, 10, *horses[0].Popularity)

	// no entry for this number: stays unset
	assert.Nil(t, horses[1].Odds)
	assert.Nil(t, horses[1].Popularity)

	require.NotNil(t, horses[2].Odds)
	assert.Equal(t, 2.1, *horses[2].Odds)
}

func TestMergeOddsEmptyMap(t *testing.T) {
	horses := []models.Horse{{Number: 1, Odds: floatPtr(3.3)}}

	MergeOdds(horses, nil)
	require.NotNil(t, horses[0].Odds)
	assert.Equal(t, 3.3, *horses[0].Odds)

	MergeOdds(horses, models.WinOdds{})
	require.NotNil(t, horses[0].Odds)
}

func TestMergeOddsPartialEntry(t *testing.T) {
	horses := []models.Horse{{Number: 3}}
	odds := models.WinOdds{"03": {Popularity: intPtr(2)}}

	MergeOdds(horses, odds)

	assert.Nil(t, horses[0].Odds)
	require.NotNil(t, horses[0].Popularity)
	assert.Equal(t, 2, *horses[0].Popularity)
}

const assemblePage = `<html>
<head><title>テストレース 出馬表 | 2026年8月30日</title></head>
<body>
<div class="RaceList_NameBox">
  <h1 class="RaceName">テストレース</h1>
  <div class="RaceData01">15:40発走 / 芝2400m / 天候:晴 / 馬場:良</div>
  <div class="RaceData02"><span>5回</span><span>東京</span></div>
</div>
<table class="Shutuba_Past5_Table"><tbody>
<tr class="HorseList">
  <td class="Waku">1</td>
  <td class="Horse_Info"><div class="Horse02"><a href="/horse/2022100001">アタリウマ</a></div></td>
</tr>
<tr class="HorseList">
  <td class="Waku">欠</td>
  <td class="Horse_Info"><div class="Horse02"><a href="/horse/2022100002">ハズレウマ</a></div></td>
</tr>
</tbody></table>
</body></html>`

func TestAssemble(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(assemblePage))
	require.NoError(t, err)

	svc := NewExtractionService(nil, nil)
	odds := models.WinOdds{"01": {Odds: floatPtr(4.2), Popularity: intPtr(2)}}

	result := svc.Assemble(doc, "202605050812", "https://example.com/newspaper", odds)

	assert.Equal(t, "202605050812", result.RaceID)
	assert.Equal(t, "https://example.com/newspaper", result.SourceURL)
	assert.Equal(t, "テストレース", result.Race.RaceName)
	require.NotNil(t, result.Race.Venue)
	assert.Equal(t, "東京", *result.Race.Venue)

	// second row has an unparseable number and is dropped
	require.Len(t, result.Horses, 1)
	assert.Equal(t, "アタリウマ", result.Horses[0].HorseName)
	require.NotNil(t, result.Horses[0].Odds)
	assert.Equal(t, 4.2, *result.Horses[0].Odds)

	// non-nil empty reserved blocks keep the JSON shape stable
	assert.NotNil(t, result.RaceInfo.LapPrediction)
	assert.NotNil(t, result.RaceInfo.Development)
	assert.NotNil(t, result.Poplar)
}

func TestAssembleEmptyPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)

	svc := NewExtractionService(nil, nil)
	result := svc.Assemble(doc, "202605050812", "https://example.com/newspaper", nil)

	assert.Equal(t, "", result.Race.RaceName)
	assert.NotNil(t, result.Horses)
	assert.Empty(t, result.Horses)
}
