package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const raceHeaderPage = `<html>
<head><title>ジャパンカップ 出馬表 | 2026年8月30日 東京11R レース情報(JRA)</title></head>
<body>
<div class="RaceList_NameBox">
  <h1 class="RaceName">ジャパンカップ<span class="Icon_GradeType Icon_GradeType1"></span></h1>
  <div class="RaceData01">１５:４０発走 / 芝2400m (左) / 天候:晴 / 馬場:良</div>
  <div class="RaceData02">
    <span>5回</span><span>東京</span><span>8日目</span><span>サラ系３歳以上</span>
  </div>
</div>
</body></html>`

func TestParseRaceInfo(t *testing.T) {
	info := ParseRaceInfo(docFromHTML(t, raceHeaderPage))

	assert.Equal(t, "ジャパンカップ (G1)", info.RaceName)
	assert.Equal(t, "15:40発走 / 芝2400m (左) / 天候:晴 / 馬場:良 / 5回 東京 8日目 サラ系3歳以上", info.RaceInfoText)

	require.NotNil(t, info.PostTime)
	assert.Equal(t, "15:40", *info.PostTime)
	require.NotNil(t, info.CourseType)
	assert.Equal(t, "芝", *info.CourseType)
	require.NotNil(t, info.Distance)
	assert.Equal(t, 2400, *info.Distance)
	require.NotNil(t, info.TrackCondition)
	assert.Equal(t, "良", *info.TrackCondition)
	require.NotNil(t, info.Weather)
	assert.Equal(t, "晴", *info.Weather)
	require.NotNil(t, info.RaceDate)
	assert.Equal(t, "2026/08/30", *info.RaceDate)
	require.NotNil(t, info.Venue)
	assert.Equal(t, "東京", *info.Venue)
}

func TestParseRaceInfoMissingNameBox(t *testing.T) {
	info := ParseRaceInfo(docFromHTML(t, `<html><body><p>メンテナンス中</p></body></html>`))

	assert.Equal(t, "", info.RaceName)
	assert.Equal(t, "", info.RaceInfoText)
	assert.Nil(t, info.PostTime)
	assert.Nil(t, info.CourseType)
	assert.Nil(t, info.Distance)
	assert.Nil(t, info.TrackCondition)
	assert.Nil(t, info.Weather)
	assert.Nil(t, info.RaceDate)
	assert.Nil(t, info.Venue)
}

func TestParseRaceInfoGradeSuffix(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"no grade icon",
			`<h1 class="RaceName">3歳上1勝クラス</h1>`,
			"3歳上1勝クラス",
		},
		{
			"g2 icon",
			`<h1 class="RaceName">京都大賞典<span class="Icon_GradeType Icon_GradeType2"></span></h1>`,
			"京都大賞典 (G2)",
		},
		{
			"g3 icon",
			`<h1 class="RaceName">シリウスS<span class="Icon_GradeType Icon_GradeType3"></span></h1>`,
			"シリウスS (G3)",
		},
		{
			"first labelled span wins",
			`<h1 class="RaceName">宝塚記念<span class="Icon_GradeType Icon_GradeType1"></span><span class="Icon_GradeType Icon_GradeType3"></span></h1>`,
			"宝塚記念 (G1)",
		},
		{
			"icon text excluded from name",
			`<h1 class="RaceName">有馬記念<span class="Icon_GradeType Icon_GradeType1">GI</span></h1>`,
			"有馬記念 (G1)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<div class="RaceList_NameBox">` + tt.html + `</div>`
			info := ParseRaceInfo(docFromHTML(t, html))
			assert.Equal(t, tt.want, info.RaceName)
		})
	}
}

func TestParseRaceInfoDirtPrecedence(t *testing.T) {
	html := `<div class="RaceList_NameBox">
	  <h1 class="RaceName">フェブラリーS</h1>
	  <div class="RaceData01">15:30発走 / ダ1600m (左) / 天候:曇 / 馬場:稍重</div>
	</div>`
	info := ParseRaceInfo(docFromHTML(t, html))

	require.NotNil(t, info.CourseType)
	assert.Equal(t, "ダ", *info.CourseType)
	require.NotNil(t, info.Distance)
	assert.Equal(t, 1600, *info.Distance)
}

func TestParseRaceInfoTurfBeatsDirtWhenBothAppear(t *testing.T) {
	html := `<div class="RaceList_NameBox">
	  <h1 class="RaceName">テスト</h1>
	  <div class="RaceData01">10:10発走 / 芝→ダ2880m / 天候:晴 / 馬場:良</div>
	</div>`
	info := ParseRaceInfo(docFromHTML(t, html))

	require.NotNil(t, info.CourseType)
	assert.Equal(t, "芝", *info.CourseType)
}

func TestParseRaceInfoShortDataBlocks(t *testing.T) {
	// one span only: no venue, info text still assembled
	html := `<div class="RaceList_NameBox">
	  <h1 class="RaceName">新馬戦</h1>
	  <div class="RaceData01">発走時刻未定</div>
	  <div class="RaceData02"><span>5回</span></div>
	</div>`
	info := ParseRaceInfo(docFromHTML(t, html))

	assert.Nil(t, info.Venue)
	assert.Nil(t, info.PostTime)
	assert.Nil(t, info.Distance)
	assert.Equal(t, "発走時刻未定 / 5回", info.RaceInfoText)
}
