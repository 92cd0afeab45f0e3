package models

import "testing"

func iptr(v int) *int       { return &v }
func sptr(v string) *string { return &v }

func TestLast3FSeconds(t *testing.T) {
	tests := []struct {
		name   string
		last3f *string
		want   float64
		ok     bool
	}{
		{"valid", sptr("33.4"), 33.4, true},
		{"absent", nil, 0, false},
		{"empty", sptr(""), 0, false},
		{"garbage", sptr("n/a"), 0, false},
		{"zero", sptr("0.0"), 0, false},
		{"negative", sptr("-1.0"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := PastRace{Last3F: tt.last3f}
			got, ok := pr.Last3FSeconds()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Last3FSeconds() = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHasMarketResult(t *testing.T) {
	tests := []struct {
		name       string
		popularity *int
		position   *int
		want       bool
	}{
		{"both known", iptr(5), iptr(1), true},
		{"no popularity", nil, iptr(1), false},
		{"no position", iptr(5), nil, false},
		{"zero popularity", iptr(0), iptr(1), false},
		{"zero position", iptr(5), iptr(0), false},
		{"neither", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := PastRace{Popularity: tt.popularity, Position: tt.position}
			if got := pr.HasMarketResult(); got != tt.want {
				t.Errorf("HasMarketResult() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOddsKey(t *testing.T) {
	tests := []struct {
		number int
		want   string
	}{
		{1, "01"},
		{9, "09"},
		{10, "10"},
		{18, "18"},
	}
	for _, tt := range tests {
		h := Horse{Number: tt.number}
		if got := h.OddsKey(); got != tt.want {
			t.Errorf("OddsKey() for %d = %q, want %q", tt.number, got, tt.want)
		}
	}
}

func TestJockeyName(t *testing.T) {
	h := Horse{}
	if got := h.JockeyName(); got != "" {
		t.Errorf("JockeyName() = %q, want empty", got)
	}
	h.Jockey = sptr("ルメール")
	if got := h.JockeyName(); got != "ルメール" {
		t.Errorf("JockeyName() = %q", got)
	}
}
